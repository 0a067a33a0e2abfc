package engine

import "github.com/mnykolaichuk96/WebOptimalCutting/internal/model"

// RunSummary holds the computed statistics for one optimizer run,
// ready for reporting and rendering.
type RunSummary struct {
	BeamsUsed           int
	BeamLength          int
	DistinctPatterns    int
	TotalElementsLength int
	StockConsumed       int
	TotalWaste          int
	Utilization         float64
	WastePercent        float64
}

// Summarize derives a RunSummary from a finished result.
func Summarize(result model.CutResult) RunSummary {
	stockConsumed := result.StockConsumed()

	wastePercent := 0.0
	if stockConsumed > 0 {
		wastePercent = 100.0 * float64(result.TotalWaste) / float64(stockConsumed)
	}

	return RunSummary{
		BeamsUsed:           result.Genome.BeamCount(),
		BeamLength:          result.BeamLength,
		DistinctPatterns:    len(result.Patterns),
		TotalElementsLength: result.TotalElementsLength(),
		StockConsumed:       stockConsumed,
		TotalWaste:          result.TotalWaste,
		Utilization:         result.Utilization(),
		WastePercent:        wastePercent,
	}
}
