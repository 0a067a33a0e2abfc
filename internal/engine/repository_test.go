package engine

import (
	"errors"
	"testing"
)

func newTestRepository() *patternRepository {
	return newPatternRepository(100, []int{50, 30, 20})
}

func TestRepositoryInternDeduplicatesByLayout(t *testing.T) {
	repo := newTestRepository()

	first := repo.intern([]int{1, 1, 1})
	second := repo.intern([]int{1, 1, 1})

	if first.ID != second.ID {
		t.Errorf("equal layouts resolved to different ids: %s vs %s", first.ID, second.ID)
	}
	if len(repo.best) != 1 {
		t.Errorf("expected one registered pattern, got %d", len(repo.best))
	}
}

func TestRepositoryInternComputesWaste(t *testing.T) {
	repo := newTestRepository()

	p := repo.intern([]int{1, 1, 0})
	if p.Waste != 20 {
		t.Errorf("expected waste 20, got %d", p.Waste)
	}
	if p.StockSize != 100 {
		t.Errorf("expected stock size 100, got %d", p.StockSize)
	}

	zero := repo.intern([]int{2, 0, 0})
	if zero.Waste != 0 {
		t.Errorf("expected zero waste, got %d", zero.Waste)
	}
}

func TestRepositoryInternFindsExistingFeasiblePattern(t *testing.T) {
	repo := newTestRepository()
	existing := repo.newPattern([]int{0, 2, 2})
	repo.feasible = append(repo.feasible, existing)

	p := repo.intern([]int{0, 2, 2})
	if p.ID != existing.ID {
		t.Errorf("intern fabricated a new pattern for a live layout")
	}
	if len(repo.best) != 0 {
		t.Errorf("intern registered a duplicate into best")
	}
}

func TestRepositoryLookup(t *testing.T) {
	repo := newTestRepository()
	p := repo.intern([]int{1, 0, 0})

	got, err := repo.lookup(p.ID)
	if err != nil {
		t.Fatalf("lookup failed for live pattern: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("lookup returned wrong pattern: %s", got.ID)
	}

	_, err = repo.lookup("missing")
	if !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("expected ErrPatternNotFound, got %v", err)
	}
}

func TestRepositoryIsFeasible(t *testing.T) {
	repo := newTestRepository()

	cases := []struct {
		layout []int
		want   bool
	}{
		{[]int{2, 0, 0}, true},  // exactly the beam
		{[]int{1, 1, 1}, true},  // 100 total
		{[]int{2, 0, 1}, false}, // 120 total
		{[]int{0, 0, 0}, true},  // empty layout is trivially feasible
	}
	for _, c := range cases {
		if got := repo.isFeasible(c.layout); got != c.want {
			t.Errorf("isFeasible(%v) = %v, want %v", c.layout, got, c.want)
		}
	}
}

func TestLayoutWaste(t *testing.T) {
	repo := newTestRepository()

	if got := repo.layoutWaste([]int{1, 1, 1}); got != 0 {
		t.Errorf("expected waste 0, got %d", got)
	}
	if got := repo.layoutWaste([]int{0, 0, 0}); got != 100 {
		t.Errorf("expected waste 100, got %d", got)
	}
	// Infeasible layouts yield negative waste; callers use this to
	// discard crossover children.
	if got := repo.layoutWaste([]int{2, 1, 0}); got != -30 {
		t.Errorf("expected waste -30, got %d", got)
	}
}
