package engine

import (
	"sort"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// selectElitism collects every feasible pattern tied for the single
// best fitness value into the elite pool. Ties are all kept; the pool
// has no size cap.
func (o *optimizer) selectElitism() {
	if len(o.repo.feasible) == 0 {
		return
	}

	minWaste := o.repo.feasible[0].Waste
	for _, p := range o.repo.feasible[1:] {
		if p.Waste < minWaste {
			minWaste = p.Waste
		}
	}
	for _, p := range o.repo.feasible {
		if p.Waste == minWaste {
			o.elite = append(o.elite, p)
		}
	}
}

// updateCutPatterns performs the replacement step: the crossed and
// elite pools are merged into one layout-deduplicated candidate set and
// folded into the feasible pool, the feasible pool is sorted by
// ascending waste and trimmed to the configured survivor fraction, and
// the best pool is recomputed over the union of best and the surviving
// feasible patterns.
func (o *optimizer) updateCutPatterns() {
	candidates := make([]model.CutPattern, 0, len(o.crossed)+len(o.elite))
	candidates = append(candidates, o.crossed...)
	for _, p := range o.elite {
		if !containsLayout(candidates, p.Layout) {
			candidates = append(candidates, p)
		}
	}

	for _, p := range candidates {
		if !containsLayout(o.repo.feasible, p.Layout) {
			o.repo.feasible = append(o.repo.feasible, p)
		}
	}

	sort.SliceStable(o.repo.feasible, func(i, j int) bool {
		return o.repo.feasible[i].Waste < o.repo.feasible[j].Waste
	})
	keep := int(float64(len(o.repo.feasible)) * o.cfg.NextGenerationFeasiblePatternsPercent)
	if keep == 0 && len(o.repo.feasible) > 0 {
		keep = 1
	}
	o.repo.feasible = o.repo.feasible[:keep]

	pool := make([]model.CutPattern, 0, len(o.repo.best)+len(o.repo.feasible))
	pool = append(pool, o.repo.best...)
	pool = append(pool, o.repo.feasible...)
	o.calculateBestCutPatterns(pool)
}

// eliteEntry preserves one genome entry across pool replacement by
// layout value rather than by pattern id.
type eliteEntry struct {
	repetition int
	layout     []int
}

// selectEliteSolution records the lowest-waste genome of the current
// solution population (ties broken by fewest entries) as layout values,
// so it can be re-materialized after the pools have been replaced.
func (o *optimizer) selectEliteSolution() error {
	if len(o.solutions) == 0 {
		return nil
	}

	best, _, err := o.pickBestSolution()
	if err != nil {
		return err
	}

	entries := make([]eliteEntry, 0, len(best))
	for _, e := range best {
		p, err := o.repo.lookup(e.PatternID)
		if err != nil {
			return err
		}
		layout := make([]int, len(p.Layout))
		copy(layout, p.Layout)
		entries = append(entries, eliteEntry{repetition: e.Repetition, layout: layout})
	}
	o.eliteSolution = entries
	return nil
}

// combineEliteSolution re-materializes the carried-over elite genome
// through the repository (so its patterns survive pool replacement) and
// re-inserts it into the candidate solution population.
func (o *optimizer) combineEliteSolution() {
	if len(o.eliteSolution) == 0 {
		return
	}

	genome := make(model.Genome, 0, len(o.eliteSolution))
	for _, e := range o.eliteSolution {
		p := o.repo.intern(e.layout)
		genome = append(genome, model.GenomeEntry{Repetition: e.repetition, PatternID: p.ID})
	}
	o.eliteSolution = nil
	o.solutions = append(o.solutions, genome)
}

// pickBestSolution returns the minimum-waste genome of the current
// solution population and its waste, breaking ties by fewest entries.
func (o *optimizer) pickBestSolution() (model.Genome, int, error) {
	var best model.Genome
	bestWaste := 0

	for _, g := range o.solutions {
		waste, err := o.calculateGenomeWaste(g)
		if err != nil {
			return nil, 0, err
		}
		if best == nil || waste < bestWaste || (waste == bestWaste && len(g) < len(best)) {
			best = g
			bestWaste = waste
		}
	}
	return best, bestWaste, nil
}

// calculateGenomeWaste sums repetition * pattern waste over the genome.
// It is a pure function of the genome and the patterns it references.
func (o *optimizer) calculateGenomeWaste(g model.Genome) (int, error) {
	total := 0
	for _, e := range g {
		p, err := o.repo.lookup(e.PatternID)
		if err != nil {
			return 0, err
		}
		total += e.Repetition * p.Waste
	}
	return total, nil
}
