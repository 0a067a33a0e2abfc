package export

import (
	"fmt"

	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	dxfdrawing "github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// DXF layout constants. Each genome entry becomes one beam rectangle;
// rows are stacked top to bottom with a fixed gap, drawing units match
// the input lengths (mm).
const (
	dxfBeamHeight = 40.0
	dxfRowGap     = 20.0
)

// ExportDXF writes the cutting plan as a DXF drawing. Each beam row is
// a rectangle on the BEAM layer, with vertical lines on the CUTS layer
// marking where the saw cuts fall. Repetition is encoded by drawing the
// row once; the PDF plan carries the counts.
func ExportDXF(path string, result model.CutResult) error {
	if len(result.Genome) == 0 {
		return fmt.Errorf("no cutting plan to export")
	}

	drawing := dxf.NewDrawing()
	if _, err := drawing.AddLayer("BEAM", dxfcolor.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add BEAM layer: %w", err)
	}
	if _, err := drawing.AddLayer("CUTS", dxfcolor.Red, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("failed to add CUTS layer: %w", err)
	}

	y := 0.0
	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		if !ok {
			return fmt.Errorf("genome references unknown pattern %s", entry.PatternID)
		}

		if err := drawing.ChangeLayer("BEAM"); err != nil {
			return err
		}
		if err := drawRectangle(drawing, 0, y, float64(pattern.StockSize), dxfBeamHeight); err != nil {
			return err
		}

		if err := drawing.ChangeLayer("CUTS"); err != nil {
			return err
		}
		x := 0.0
		for i, count := range pattern.Layout {
			if i >= len(result.UniqueLengths) {
				break
			}
			length := float64(result.UniqueLengths[i])
			for c := 0; c < count; c++ {
				x += length
				if x >= float64(pattern.StockSize) {
					break
				}
				if _, err := drawing.Line(x, y, 0, x, y+dxfBeamHeight, 0); err != nil {
					return err
				}
			}
		}

		y -= dxfBeamHeight + dxfRowGap
	}

	return drawing.SaveAs(path)
}

// drawRectangle draws an axis-aligned rectangle from four line entities.
func drawRectangle(drawing *dxfdrawing.Drawing, x, y, w, h float64) error {
	lines := [][4]float64{
		{x, y, x + w, y},
		{x + w, y, x + w, y + h},
		{x + w, y + h, x, y + h},
		{x, y + h, x, y},
	}
	for _, l := range lines {
		if _, err := drawing.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return err
		}
	}
	return nil
}
