package engine

import "github.com/mnykolaichuk96/WebOptimalCutting/internal/model"

// crossover splices every pattern in the current solution pattern set
// against a random best-pool parent at a single random point, producing
// two children per pair. Children with negative waste are infeasible
// and discarded; duplicate child layouts within one pass are kept only
// once. Retained children land in the transient crossed pool.
func (o *optimizer) crossover() {
	seen := make(map[string]bool)

	for _, parent2 := range o.solutionPatterns {
		parent1 := o.randomBest()

		upper := len(parent1.Layout) - 1
		if upper == 0 {
			upper = 1
		}
		point := 1 + o.rng.Intn(upper)

		o.admitChild(spliceLayouts(parent1.Layout, parent2.Layout, point), seen)
		o.admitChild(spliceLayouts(parent2.Layout, parent1.Layout, point), seen)
	}
}

// spliceLayouts joins head[:point] with tail[point:]. The child keeps
// the parents' layout length.
func spliceLayouts(head, tail []int, point int) []int {
	child := make([]int, 0, len(head))
	child = append(child, head[:point]...)
	child = append(child, tail[point:]...)
	return child
}

func (o *optimizer) admitChild(layout []int, seen map[string]bool) {
	key := layoutKey(layout)
	if seen[key] {
		return
	}
	seen[key] = true

	child := model.CutPattern{
		ID:        model.NewPatternID(),
		StockSize: o.beamLength,
		Layout:    layout,
		Waste:     o.repo.layoutWaste(layout),
	}
	if child.Waste >= 0 {
		o.crossed = append(o.crossed, child)
	}
}

func layoutKey(layout []int) string {
	// Layout counts are small non-negative ints; a byte-separated key
	// is collision-free for beam-sized values.
	key := make([]byte, 0, len(layout)*2)
	for _, c := range layout {
		key = append(key, byte(c), byte(c>>8), ',')
	}
	return string(key)
}

// mutatePool mutates each pattern in the pool independently. Per
// pattern at most one layout position is attempted: with probability
// MutationProbability the position's count is incremented until the
// layout is feasible again, bounded above by the piece's required
// quantity, and reverted when no feasible increment exists. Waste is
// recomputed; the pattern id is preserved.
func (o *optimizer) mutatePool(pool []model.CutPattern) []model.CutPattern {
	mutated := make([]model.CutPattern, 0, len(pool))

	for _, p := range pool {
		layout := make([]int, len(p.Layout))
		copy(layout, p.Layout)

		for i := range layout {
			if o.rng.Float64() >= o.cfg.MutationProbability {
				continue
			}

			original := layout[i]
			bound := o.required[o.uniqueLengths[i]]
			feasible := false
			for value := original + 1; value <= bound; value++ {
				layout[i] = value
				if o.repo.isFeasible(layout) {
					feasible = true
					break
				}
			}
			if !feasible {
				layout[i] = original
			}
			break // one attempted position per pattern per call
		}

		mutated = append(mutated, model.CutPattern{
			ID:        p.ID,
			StockSize: p.StockSize,
			Layout:    layout,
			Waste:     o.repo.layoutWaste(layout),
		})
	}

	return mutated
}
