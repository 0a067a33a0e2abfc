package engine

import (
	"sort"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// demandMap tracks how many pieces of each distinct length a genome
// under construction still has to cover. Entries never go negative:
// applications that would overdraw a length are rejected, not clamped.
type demandMap map[int]int

func (d demandMap) clone() demandMap {
	out := make(demandMap, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d demandMap) remaining() int {
	total := 0
	for _, v := range d {
		total += v
	}
	return total
}

// subtract removes repetition * layout from the demand map. It returns
// the updated copy, or false when any entry would go negative.
func (o *optimizer) subtract(d demandMap, layout []int, repetition int) (demandMap, bool) {
	out := d.clone()
	for i, length := range o.uniqueLengths {
		out[length] -= layout[i] * repetition
		if out[length] < 0 {
			return nil, false
		}
	}
	return out, true
}

// applyPattern chooses a repetition count for the pattern against the
// current demand and subtracts it. When the pattern's yield exactly
// equals the remaining required length the repetition is forced to 1;
// otherwise it is drawn uniformly from [1, max] where max is the
// smallest remaining_demand/layout_count over the lengths the pattern
// actually cuts. Returns repetition 0 and ok=false when the
// application is infeasible.
func (o *optimizer) applyPattern(d demandMap, p model.CutPattern) (int, demandMap, bool) {
	yield := o.beamLength - p.Waste

	remainingLength := 0
	for length, count := range d {
		remainingLength += length * count
	}

	var repetition int
	if remainingLength == yield {
		repetition = 1
	} else {
		max := -1 // unbounded until the pattern touches a constrained length
		for i, length := range o.uniqueLengths {
			count := p.Layout[i]
			if count == 0 {
				continue
			}
			quantity := d[length]
			var limit int
			if quantity == count {
				limit = 1
			} else {
				limit = quantity / count
			}
			if max < 0 || limit < max {
				max = limit
			}
		}

		switch {
		case max < 0:
			repetition = 1
		case max == 0:
			return 0, nil, false
		default:
			repetition = 1 + o.rng.Intn(max)
		}
	}

	updated, ok := o.subtract(d, p.Layout, repetition)
	if !ok {
		return 0, nil, false
	}
	return repetition, updated, true
}

// addToGenome merges the pattern into the genome, accumulating the
// repetition when an entry with the same pattern id already exists.
func addToGenome(genome model.Genome, repetition int, patternID string) model.Genome {
	for i, e := range genome {
		if e.PatternID == patternID {
			genome[i].Repetition += repetition
			return genome
		}
	}
	return append(genome, model.GenomeEntry{Repetition: repetition, PatternID: patternID})
}

// demandDrivenPattern greedily builds a layout for the outstanding
// demand: lengths are visited in descending-quantity order and each
// receives min(remaining_capacity/length, quantity) copies.
func (o *optimizer) demandDrivenPattern(d demandMap) model.CutPattern {
	type demand struct {
		length   int
		quantity int
	}
	sorted := make([]demand, 0, len(o.uniqueLengths))
	for _, length := range o.uniqueLengths {
		sorted = append(sorted, demand{length: length, quantity: d[length]})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].quantity > sorted[j].quantity
	})

	remaining := o.beamLength
	counts := make(map[int]int, len(sorted))
	for _, dm := range sorted {
		count := 0
		if dm.quantity > 0 {
			count = remaining / dm.length
			if dm.quantity < count {
				count = dm.quantity
			}
			remaining -= count * dm.length
		}
		counts[dm.length] = count
	}

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

// patternForRemaining builds a demand-driven pattern and interns it so
// repeated construction failures can fall back to a layout tailored to
// the outstanding demand.
func (o *optimizer) patternForRemaining(d demandMap) model.CutPattern {
	return o.repo.intern(o.demandDrivenPattern(d).Layout)
}

// buildSolutionPopulation constructs PopulationSize genomes. Strategy 1
// starts each genome from a best-pool anchor pattern before switching
// to the general step; strategy 2 uses the general step throughout.
// The general step draws from the feasible pool, escalating to the best
// pool after BestRetryThreshold consecutive failures and to a freshly
// generated demand-driven pattern after DemandRetryThreshold failures.
// Genomes that never progressed are discarded.
func (o *optimizer) buildSolutionPopulation(strategy int) ([]model.Genome, error) {
	var population []model.Genome

	for n := 0; n < o.cfg.PopulationSize; n++ {
		genome, err := o.buildGenome(strategy)
		if err != nil {
			return nil, err
		}
		if len(genome) != 0 {
			population = append(population, genome)
		}
	}

	return population, nil
}

func (o *optimizer) buildGenome(strategy int) (model.Genome, error) {
	anchorID := o.randomBest().ID
	demand := o.required.clone()
	remainingLength := o.totalElementsLength
	failures := 0
	anchorRedraws := 0

	step := 0
	if strategy != 1 {
		step = 1
	}

	var genome model.Genome

	for remainingLength > 0 && demand.remaining() != 0 {
		if step == 0 {
			anchor, err := o.repo.lookup(anchorID)
			if err != nil {
				return nil, err
			}
			yield := o.beamLength - anchor.Waste

			if yield <= 0 || yield > remainingLength {
				// Anchor cannot fit; re-draw a different one. Give up
				// on anchoring when no best pattern fits at all.
				anchorRedraws++
				if anchorRedraws > len(o.repo.best) {
					step++
					continue
				}
				anchorID = o.randomBest().ID
				continue
			}

			repetition, updated, ok := o.applyPattern(demand, anchor)
			if !ok {
				step++
				continue
			}
			demand = updated
			genome = append(genome, model.GenomeEntry{Repetition: repetition, PatternID: anchorID})
			remainingLength -= repetition * yield
			step++
			continue
		}

		if failures > o.cfg.DemandRetryThreshold {
			failures = 0
			pattern := o.patternForRemaining(demand)
			repetition, updated, ok := o.applyPattern(demand, pattern)
			if ok {
				demand = updated
				remainingLength -= repetition * (o.beamLength - pattern.Waste)
				genome = addToGenome(genome, repetition, pattern.ID)
			} else {
				step++
			}
			continue
		}

		id := o.randomFeasible().ID
		if failures > o.cfg.BestRetryThreshold {
			id = o.randomBest().ID
		}

		pattern, err := o.repo.lookup(id)
		if err != nil {
			return nil, err
		}
		yield := o.beamLength - pattern.Waste

		if yield <= 0 || yield > remainingLength {
			step++
			failures++
			continue
		}

		repetition, updated, ok := o.applyPattern(demand, pattern)
		if !ok || repetition == 0 {
			step++
			failures++
			continue
		}

		demand = updated
		remainingLength -= repetition * yield
		genome = addToGenome(genome, repetition, pattern.ID)
		step++
	}

	return genome, nil
}

func (o *optimizer) randomBest() model.CutPattern {
	return o.repo.best[o.rng.Intn(len(o.repo.best))]
}

func (o *optimizer) randomFeasible() model.CutPattern {
	if len(o.repo.feasible) == 0 {
		return o.randomBest()
	}
	return o.repo.feasible[o.rng.Intn(len(o.repo.feasible))]
}
