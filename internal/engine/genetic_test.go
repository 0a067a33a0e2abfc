package engine

import (
	"testing"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 20
	cfg.GenerationCount = 10
	return cfg
}

// coverageByLength expands a genome into the number of pieces it cuts
// per distinct length, using the request's canonical layout ordering.
func coverageByLength(t *testing.T, req model.CutRequest, result model.CutResult) map[int]int {
	t.Helper()
	counts := make(map[int]int)
	unique := req.UniqueLengths()
	for _, e := range result.Genome {
		p, ok := result.PatternByID(e.PatternID)
		if !ok {
			t.Fatalf("genome references pattern %s missing from result", e.PatternID)
		}
		for i, c := range p.Layout {
			counts[unique[i]] += e.Repetition * c
		}
	}
	return counts
}

func TestOptimizeExactFitSingleBeam(t *testing.T) {
	req := model.CutRequest{BeamLength: 100, ElementLengths: []int{50, 50}}

	result, err := Optimize(req, testConfig(), 1)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	if result.TotalWaste != 0 {
		t.Errorf("expected zero waste, got %d", result.TotalWaste)
	}
	if len(result.Genome) != 1 {
		t.Fatalf("expected one genome entry, got %d", len(result.Genome))
	}
	if result.Genome[0].Repetition != 1 {
		t.Errorf("expected repetition 1, got %d", result.Genome[0].Repetition)
	}
	if got := result.Patterns[0].Layout; len(got) != 1 || got[0] != 2 {
		t.Errorf("expected layout [2], got %v", got)
	}
}

func TestOptimizeSmallPiecesWasteBound(t *testing.T) {
	req := model.CutRequest{BeamLength: 10, ElementLengths: []int{3, 3, 3, 3}}

	result, err := Optimize(req, testConfig(), 2)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	// Four 3-pieces on 10-beams: two beams [3,3,3]+[3] waste 1+7, or
	// better combinations; the trivial one-piece-per-beam bound is
	// 4*(10-3) = 28.
	if result.TotalWaste > 28 {
		t.Errorf("waste %d exceeds the one-piece-per-beam bound 28", result.TotalWaste)
	}
	if got := coverageByLength(t, req, result)[3]; got != 4 {
		t.Errorf("expected 4 pieces of length 3, got %d", got)
	}
}

func TestOptimizeDegenerateSinglePiece(t *testing.T) {
	req := model.CutRequest{BeamLength: 20, ElementLengths: []int{20}}

	result, err := Optimize(req, testConfig(), 3)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	if len(result.Genome) != 1 {
		t.Fatalf("expected one genome entry, got %d", len(result.Genome))
	}
	if result.Genome[0].Repetition != 1 {
		t.Errorf("expected repetition 1, got %d", result.Genome[0].Repetition)
	}
	if result.TotalWaste != 0 {
		t.Errorf("expected zero waste, got %d", result.TotalWaste)
	}
}

func TestOptimizeCoversAllDemand(t *testing.T) {
	req := model.CutRequest{
		BeamLength:     100,
		ElementLengths: []int{30, 30, 30, 20, 20, 45, 45, 45, 10, 10, 10, 10},
	}

	result, err := Optimize(req, testConfig(), 4)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	coverage := coverageByLength(t, req, result)
	for length, want := range req.LengthCounts() {
		if coverage[length] != want {
			t.Errorf("length %d: covered %d pieces, required %d", length, coverage[length], want)
		}
	}

	// Every referenced pattern is feasible for the beam.
	for _, p := range result.Patterns {
		if p.Waste < 0 {
			t.Errorf("pattern %s has negative waste %d", p.ID, p.Waste)
		}
		if p.StockSize != req.BeamLength {
			t.Errorf("pattern %s stock size %d, want %d", p.ID, p.StockSize, req.BeamLength)
		}
	}
}

func TestOptimizeDeterministicPerSeed(t *testing.T) {
	req := model.CutRequest{BeamLength: 60, ElementLengths: []int{20, 20, 20, 15, 15, 10}}

	first, err := Optimize(req, testConfig(), 7)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Optimize(req, testConfig(), 7)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.TotalWaste != second.TotalWaste {
		t.Errorf("same seed produced different waste: %d vs %d", first.TotalWaste, second.TotalWaste)
	}
	if len(first.Genome) != len(second.Genome) {
		t.Errorf("same seed produced different genome sizes: %d vs %d", len(first.Genome), len(second.Genome))
	}
}

func TestGenomeWasteIdempotent(t *testing.T) {
	req := model.CutRequest{BeamLength: 25, ElementLengths: []int{10, 10, 7, 7, 4}}
	o := newOptimizer(req, testConfig(), 5)
	o.generatePopulation()
	o.calculateBestCutPatterns(o.repo.feasible)

	genomes, err := o.buildSolutionPopulation(2)
	if err != nil {
		t.Fatalf("buildSolutionPopulation: %v", err)
	}
	if len(genomes) == 0 {
		t.Fatal("expected at least one genome")
	}

	first, err := o.calculateGenomeWaste(genomes[0])
	if err != nil {
		t.Fatalf("calculateGenomeWaste: %v", err)
	}
	second, err := o.calculateGenomeWaste(genomes[0])
	if err != nil {
		t.Fatalf("calculateGenomeWaste: %v", err)
	}
	if first != second {
		t.Errorf("genome waste not idempotent: %d vs %d", first, second)
	}
}

func TestConfigWithDefaultsFillsZeroValues(t *testing.T) {
	cfg := Config{}.withDefaults()
	want := DefaultConfig()
	if cfg != want {
		t.Errorf("withDefaults() = %+v, want %+v", cfg, want)
	}

	cfg = Config{PopulationSize: 5, MutationProbability: 0.4}.withDefaults()
	if cfg.PopulationSize != 5 || cfg.MutationProbability != 0.4 {
		t.Errorf("withDefaults overwrote explicit values: %+v", cfg)
	}
	if cfg.BestRetryThreshold != want.BestRetryThreshold {
		t.Errorf("expected default retry threshold, got %d", cfg.BestRetryThreshold)
	}
}

func TestSummarize(t *testing.T) {
	req := model.CutRequest{BeamLength: 100, ElementLengths: []int{50, 50}}
	result, err := Optimize(req, testConfig(), 1)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	summary := Summarize(result)
	if summary.BeamsUsed != 1 {
		t.Errorf("expected 1 beam used, got %d", summary.BeamsUsed)
	}
	if summary.TotalElementsLength != 100 {
		t.Errorf("expected elements length 100, got %d", summary.TotalElementsLength)
	}
	if summary.Utilization != 100.0 {
		t.Errorf("expected 100%% utilization, got %.2f", summary.Utilization)
	}
	if summary.WastePercent != 0 {
		t.Errorf("expected 0%% waste, got %.2f", summary.WastePercent)
	}
}
