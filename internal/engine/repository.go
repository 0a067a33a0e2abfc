package engine

import (
	"errors"
	"fmt"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// ErrPatternNotFound reports a genome referencing a pattern id that is
// absent from every pool. It indicates upstream index corruption and is
// fatal for the current run.
var ErrPatternNotFound = errors.New("no cutting pattern available for id")

// patternRepository owns the canonical pattern pools. Patterns are
// deduplicated by layout content: two equal layouts always resolve to
// one id within a run.
type patternRepository struct {
	beamLength    int
	uniqueLengths []int

	feasible []model.CutPattern
	best     []model.CutPattern
}

func newPatternRepository(beamLength int, uniqueLengths []int) *patternRepository {
	return &patternRepository{
		beamLength:    beamLength,
		uniqueLengths: uniqueLengths,
	}
}

// lookup returns the live pattern with the given id, searching the best
// pool first and then the feasible pool.
func (r *patternRepository) lookup(id string) (model.CutPattern, error) {
	for _, p := range r.best {
		if p.ID == id {
			return p, nil
		}
	}
	for _, p := range r.feasible {
		if p.ID == id {
			return p, nil
		}
	}
	return model.CutPattern{}, fmt.Errorf("%w: %s", ErrPatternNotFound, id)
}

// intern resolves a layout to its live pattern. When an equal layout
// already exists in either pool that pattern is returned; otherwise a
// fresh pattern is fabricated, registered in the best pool and returned.
func (r *patternRepository) intern(layout []int) model.CutPattern {
	if p, ok := r.findByLayout(layout); ok {
		return p
	}
	p := r.newPattern(layout)
	r.best = append(r.best, p)
	return p
}

// newPattern fabricates a pattern record for the layout without
// registering it in any pool.
func (r *patternRepository) newPattern(layout []int) model.CutPattern {
	owned := make([]int, len(layout))
	copy(owned, layout)
	return model.CutPattern{
		ID:        model.NewPatternID(),
		StockSize: r.beamLength,
		Layout:    owned,
		Waste:     r.layoutWaste(owned),
	}
}

func (r *patternRepository) findByLayout(layout []int) (model.CutPattern, bool) {
	for _, p := range r.feasible {
		if layoutEqual(p.Layout, layout) {
			return p, true
		}
	}
	for _, p := range r.best {
		if layoutEqual(p.Layout, layout) {
			return p, true
		}
	}
	return model.CutPattern{}, false
}

// isFeasible reports whether the layout's pieces fit within one beam.
// It operates on raw layouts so candidates under construction can be
// validated before they become pattern records.
func (r *patternRepository) isFeasible(layout []int) bool {
	total := 0
	for i, count := range layout {
		total += r.uniqueLengths[i] * count
	}
	return total <= r.beamLength
}

// layoutWaste returns the beam length left unused by the layout.
func (r *patternRepository) layoutWaste(layout []int) int {
	remaining := r.beamLength
	for i, count := range layout {
		remaining -= r.uniqueLengths[i] * count
	}
	return remaining
}

func layoutEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containsLayout reports whether pool already holds an equal layout.
func containsLayout(pool []model.CutPattern, layout []int) bool {
	for _, p := range pool {
		if layoutEqual(p.Layout, layout) {
			return true
		}
	}
	return false
}
