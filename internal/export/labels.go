package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// LabelInfo holds the data encoded into each pattern label's QR code.
type LabelInfo struct {
	PatternID  string `json:"pattern_id"`
	StockSize  int    `json:"stock_size"`
	Layout     []int  `json:"layout"`
	Lengths    []int  `json:"lengths"`
	Waste      int    `json:"waste"`
	Repetition int    `json:"repetition"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns,
// 10 rows per page). Each label cell is approximately 66.7mm x 25.4mm
// on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per genome
// entry. Each label shows the repetition count and layout and carries a
// QR code encoding the pattern metadata as JSON, laid out on a standard
// label sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.CutResult) error {
	if len(result.Genome) == 0 {
		return fmt.Errorf("no cutting plan to generate labels for")
	}

	var labels []LabelInfo
	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		if !ok {
			return fmt.Errorf("genome references unknown pattern %s", entry.PatternID)
		}
		labels = append(labels, LabelInfo{
			PatternID:  pattern.ID,
			StockSize:  pattern.StockSize,
			Layout:     pattern.Layout,
			Lengths:    result.UniqueLengths,
			Waste:      pattern.Waste,
			Repetition: entry.Repetition,
		})
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for pattern %q: %w", label.PatternID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label cell at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, label LabelInfo) error {
	payload, err := json.Marshal(label)
	if err != nil {
		return err
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return err
	}

	imageName := fmt.Sprintf("qr-%s-%d", label.PatternID, label.Repetition)
	pdf.RegisterImageOptionsReader(imageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imageName, x+labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding + qrSize + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%d x beam %d", label.Repetition, label.StockSize), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 4, formatLayout(label.Layout, label.Lengths), "", 0, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 4, fmt.Sprintf("waste %d", label.Waste), "", 0, "L", false, 0, "")

	return nil
}

// formatLayout renders a layout as "2x50 + 1x30" style text.
func formatLayout(layout, lengths []int) string {
	var buf bytes.Buffer
	for i, count := range layout {
		if count == 0 || i >= len(lengths) {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(" + ")
		}
		fmt.Fprintf(&buf, "%dx%d", count, lengths[i])
	}
	if buf.Len() == 0 {
		return "empty"
	}
	return buf.String()
}
