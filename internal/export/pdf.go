// Package export renders cut optimization results to shareable file
// formats: a PDF cutting diagram, QR-coded pattern labels and DXF
// geometry.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// pieceColor represents an RGB color for one distinct piece length.
type pieceColor struct {
	R, G, B int
}

// pieceColors assigns each distinct piece length a stable color across
// all beams of the diagram.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	captionWidth = 18.0
	rowHeight    = 10.0
	rowGap       = 4.0
	drawAreaTop  = marginTop + headerHeight + 10.0
)

// ExportPDF generates a PDF cutting diagram for the result: one
// horizontal bar per genome entry with a colored segment per cut piece
// and a white trailing segment for the waste, followed by a summary
// block.
func ExportPDF(path string, result model.CutResult) error {
	if len(result.Genome) == 0 {
		return fmt.Errorf("no cutting plan to export")
	}
	if len(result.UniqueLengths) == 0 {
		return fmt.Errorf("result carries no canonical length ordering")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()
	renderHeader(pdf, result)

	lengths := result.UniqueLengths
	colorIndex := make(map[int]int, len(lengths))
	for i, l := range lengths {
		colorIndex[l] = i % len(pieceColors)
	}

	scale := (pageWidth - marginLeft - marginRight - captionWidth) / float64(result.BeamLength)
	drawAreaHeight := float64(pageHeight - drawAreaTop - marginBottom - 30.0)
	rowsPerPage := int(drawAreaHeight / (rowHeight + rowGap))
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}

	row := 0
	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		if !ok {
			return fmt.Errorf("genome references unknown pattern %s", entry.PatternID)
		}

		if row > 0 && row%rowsPerPage == 0 {
			pdf.AddPage()
			renderHeader(pdf, result)
		}

		y := drawAreaTop + float64(row%rowsPerPage)*(rowHeight+rowGap)
		renderBeamRow(pdf, y, scale, entry, pattern, lengths, colorIndex)
		row++
	}

	renderSummary(pdf, result)

	return pdf.OutputFileAndClose(path)
}

func renderHeader(pdf *fpdf.Fpdf, result model.CutResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting plan - beam length %d", result.BeamLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Beams: %d | Patterns: %d | Total waste: %d | Utilization: %.2f%%",
		result.Genome.BeamCount(), len(result.Patterns), result.TotalWaste, result.Utilization())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// renderBeamRow draws one genome entry as a horizontal beam with its
// cut pieces and trailing waste segment.
func renderBeamRow(pdf *fpdf.Fpdf, y, scale float64, entry model.GenomeEntry, pattern model.CutPattern, lengths []int, colorIndex map[int]int) {
	// Repetition caption on the left.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(captionWidth-2, rowHeight, fmt.Sprintf("%d x", entry.Repetition), "", 0, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)

	x := marginLeft + captionWidth
	for i, count := range pattern.Layout {
		length := lengths[i]
		col := pieceColors[colorIndex[length]]
		for n := 0; n < count; n++ {
			w := float64(length) * scale
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.Rect(x, y, w, rowHeight, "FD")
			pdf.SetXY(x, y)
			pdf.CellFormat(w, rowHeight, fmt.Sprintf("%d", length), "", 0, "C", false, 0, "")
			x += w
		}
	}

	if pattern.Waste > 0 {
		w := float64(pattern.Waste) * scale
		pdf.SetFillColor(255, 255, 255)
		pdf.Rect(x, y, w, rowHeight, "FD")
		pdf.SetXY(x, y)
		pdf.CellFormat(w, rowHeight, fmt.Sprintf("%d", pattern.Waste), "", 0, "C", false, 0, "")
	}
}

// renderSummary writes the overall statistics block under the last
// beam row.
func renderSummary(pdf *fpdf.Fpdf, result model.CutResult) {
	beamCount := result.Genome.BeamCount()

	pdf.SetFont("Helvetica", "", 10)
	y := pageHeight - marginBottom - 22.0
	lines := []string{
		fmt.Sprintf("Used %d beams of length %d", beamCount, result.BeamLength),
		fmt.Sprintf("Total length of required pieces: %d", result.TotalElementsLength()),
		fmt.Sprintf("Stock consumed: %d (%.2f%% utilized)", result.StockConsumed(), result.Utilization()),
		fmt.Sprintf("Total waste: %d", result.TotalWaste),
	}
	for _, line := range lines {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, line, "", 0, "L", false, 0, "")
		y += 5
	}
}

