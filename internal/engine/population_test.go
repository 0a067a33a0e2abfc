package engine

import (
	"math"
	"testing"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

func newTestOptimizer(beam int, lengths []int, seed int64) *optimizer {
	req := model.CutRequest{BeamLength: beam, ElementLengths: lengths}
	return newOptimizer(req, testConfig(), seed)
}

func TestCalculateFitnessDecreasingInWaste(t *testing.T) {
	prev := math.Inf(1)
	for waste := 0; waste <= 5; waste++ {
		f := calculateFitness(model.CutPattern{Waste: waste})
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			t.Errorf("fitness for waste %d not positive and finite: %f", waste, f)
		}
		if f >= prev {
			t.Errorf("fitness not strictly decreasing at waste %d: %f >= %f", waste, f, prev)
		}
		prev = f
	}
}

func TestGenerateCutPatternIsFeasibleAndBounded(t *testing.T) {
	o := newTestOptimizer(100, []int{50, 50, 30, 20, 20, 20}, 11)
	required := map[int]int{50: 2, 30: 1, 20: 3}

	for i := 0; i < 200; i++ {
		p := o.generateCutPattern()
		if !o.repo.isFeasible(p.Layout) {
			t.Fatalf("generated infeasible layout %v", p.Layout)
		}
		if p.Waste != o.repo.layoutWaste(p.Layout) {
			t.Fatalf("waste %d inconsistent with layout %v", p.Waste, p.Layout)
		}
		if p.Waste < 0 {
			t.Fatalf("negative waste %d", p.Waste)
		}
		for j, count := range p.Layout {
			length := o.uniqueLengths[j]
			if count > required[length] {
				t.Fatalf("count %d for length %d exceeds required %d", count, length, required[length])
			}
		}
	}
}

func TestGeneratePopulationReachesTarget(t *testing.T) {
	o := newTestOptimizer(100, []int{50, 50, 30, 20, 20, 20}, 12)
	o.generatePopulation()

	if len(o.repo.feasible) != o.cfg.PopulationSize {
		t.Errorf("expected %d feasible patterns, got %d", o.cfg.PopulationSize, len(o.repo.feasible))
	}

	for i, p := range o.repo.feasible {
		for j := i + 1; j < len(o.repo.feasible); j++ {
			if layoutEqual(p.Layout, o.repo.feasible[j].Layout) {
				t.Fatalf("duplicate layout %v in feasible pool", p.Layout)
			}
		}
	}
}

func TestGeneratePopulationDegradesWhenLayoutSpaceIsSmall(t *testing.T) {
	// Only layouts [0] and [1] exist, so a population of 20 cannot be
	// reached and the size must shrink rather than loop forever.
	o := newTestOptimizer(20, []int{20}, 13)
	o.generatePopulation()

	if o.cfg.PopulationSize > 2 {
		t.Errorf("expected degraded population size <= 2, got %d", o.cfg.PopulationSize)
	}
	if len(o.repo.feasible) != o.cfg.PopulationSize {
		t.Errorf("pool size %d does not match degraded population size %d",
			len(o.repo.feasible), o.cfg.PopulationSize)
	}
}

func TestCalculateBestCutPatternsCoversAllLengths(t *testing.T) {
	o := newTestOptimizer(100, []int{50, 50, 30, 20, 20, 20}, 14)
	o.generatePopulation()
	o.calculateBestCutPatterns(o.repo.feasible)

	if len(o.repo.best) == 0 {
		t.Fatal("best pool is empty")
	}

	covered := make(map[int]bool)
	for _, p := range o.repo.best {
		for i, count := range p.Layout {
			if count > 0 {
				covered[o.uniqueLengths[i]] = true
			}
		}
	}
	for _, length := range o.uniqueLengths {
		if !covered[length] {
			t.Errorf("length %d not covered by any best pattern", length)
		}
	}
}

func TestCalculateBestCutPatternsNeverEmptyForNonEmptyPool(t *testing.T) {
	o := newTestOptimizer(100, []int{50}, 15)
	pool := []model.CutPattern{o.repo.newPattern([]int{0})}
	o.calculateBestCutPatterns(pool)

	if len(o.repo.best) != 1 {
		t.Errorf("expected fallback selection of one pattern, got %d", len(o.repo.best))
	}
}
