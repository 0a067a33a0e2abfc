package engine

import (
	"log"
	"sort"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// fitnessEpsilon keeps calculateFitness finite for zero-waste patterns.
const fitnessEpsilon = 1e-10

// calculateFitness ranks a pattern by the inverse of its waste. The
// result is always positive and finite, and strictly decreasing in
// waste.
func calculateFitness(p model.CutPattern) float64 {
	return 1.0 / (float64(p.Waste) + fitnessEpsilon)
}

// generateCutPattern fabricates a random feasible pattern. The distinct
// lengths are shuffled first so the first length carries no positional
// bias, then each length receives a uniform random count bounded by the
// remaining beam capacity and the required quantity of that length.
func (o *optimizer) generateCutPattern() model.CutPattern {
	remaining := o.beamLength

	shuffled := make([]int, len(o.uniqueLengths))
	copy(shuffled, o.uniqueLengths)
	o.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	counts := make(map[int]int, len(shuffled))
	for _, length := range shuffled {
		limit := remaining / length
		if q := o.required[length]; q < limit {
			limit = q
		}
		count := o.rng.Intn(limit + 1)
		counts[length] = count
		remaining -= count * length
	}

	// Reorder into the canonical layout ordering.
	layout := make([]int, len(o.uniqueLengths))
	for i, length := range o.uniqueLengths {
		layout[i] = counts[length]
	}

	return model.CutPattern{
		ID:        model.NewPatternID(),
		StockSize: o.beamLength,
		Layout:    layout,
		Waste:     remaining,
	}
}

// generatePopulation fills the feasible pool with random unique
// patterns up to the configured population size. When MaxDuplicateDraws
// consecutive draws fail to produce a new pattern the population size
// is permanently reduced to the pool's current size; this is a logged
// degradation, not an error.
func (o *optimizer) generatePopulation() {
	drawsWithoutUnique := 0

	for len(o.repo.feasible) < o.cfg.PopulationSize {
		if drawsWithoutUnique > o.cfg.MaxDuplicateDraws {
			log.Printf("population degraded: only %d unique patterns reachable, reducing population size from %d",
				len(o.repo.feasible), o.cfg.PopulationSize)
			o.cfg.PopulationSize = len(o.repo.feasible)
			break
		}

		candidate := o.generateCutPattern()
		if o.repo.isFeasible(candidate.Layout) && !containsLayout(o.repo.feasible, candidate.Layout) {
			drawsWithoutUnique = 0
			o.repo.feasible = append(o.repo.feasible, candidate)
		} else {
			drawsWithoutUnique++
		}
	}
}

// calculateBestCutPatterns replaces the best pool with a selection from
// the given pool: a fitness-ranked set-cover pass that keeps patterns
// covering still-uncovered distinct lengths, topped up with the
// highest-fitness distinct layouts until the selection reaches 10% of
// the ranked pool.
func (o *optimizer) calculateBestCutPatterns(pool []model.CutPattern) {
	ranked := make([]model.CutPattern, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return calculateFitness(ranked[i]) > calculateFitness(ranked[j])
	})

	uncovered := make(map[int]bool, len(o.uniqueLengths))
	for _, length := range o.uniqueLengths {
		uncovered[length] = true
	}

	var best []model.CutPattern
	for _, p := range ranked {
		covers := false
		for i, count := range p.Layout {
			if count > 0 && uncovered[o.uniqueLengths[i]] {
				covers = true
				delete(uncovered, o.uniqueLengths[i])
			}
		}
		if covers {
			best = append(best, p)
			if len(uncovered) == 0 {
				break
			}
		}
	}

	topShare := int(0.1 * float64(len(ranked)))
	for _, p := range ranked {
		if len(best) >= topShare {
			break
		}
		if !containsLayout(best, p.Layout) {
			best = append(best, p)
		}
	}

	// The pool seeds every new genome; never leave it empty.
	if len(best) == 0 && len(ranked) > 0 {
		best = append(best, ranked[0])
	}

	o.repo.best = best
}
