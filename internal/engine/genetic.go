// Package engine implements the evolutionary search for the 1D
// cutting-stock problem: random and demand-driven pattern generation,
// genome construction, crossover, mutation, elitism and generational
// replacement.
package engine

import (
	"math/rand"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// Config holds parameters for the genetic optimizer. The retry
// thresholds and the duplicate-draw cap are empirically tuned values
// carried from long use, not hard invariants.
type Config struct {
	PopulationSize                        int
	GenerationCount                       int
	NextGenerationFeasiblePatternsPercent float64
	MutationProbability                   float64

	// BestRetryThreshold is the consecutive-failure count after which
	// genome construction draws from the best pool instead of the
	// feasible pool.
	BestRetryThreshold int
	// DemandRetryThreshold is the consecutive-failure count after which
	// genome construction falls back to a demand-driven pattern.
	DemandRetryThreshold int
	// MaxDuplicateDraws is the number of consecutive duplicate draws
	// after which initialization stops and shrinks the population.
	MaxDuplicateDraws int
}

// DefaultConfig returns sensible default parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize:                        50,
		GenerationCount:                       100,
		NextGenerationFeasiblePatternsPercent: 0.8,
		MutationProbability:                   0.2,
		BestRetryThreshold:                    2,
		DemandRetryThreshold:                  4,
		MaxDuplicateDraws:                     50,
	}
}

// withDefaults fills unset fields so a partially populated Config
// cannot stall the search.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PopulationSize <= 0 {
		c.PopulationSize = d.PopulationSize
	}
	if c.GenerationCount <= 0 {
		c.GenerationCount = d.GenerationCount
	}
	if c.NextGenerationFeasiblePatternsPercent <= 0 || c.NextGenerationFeasiblePatternsPercent > 1 {
		c.NextGenerationFeasiblePatternsPercent = d.NextGenerationFeasiblePatternsPercent
	}
	if c.MutationProbability < 0 || c.MutationProbability > 1 {
		c.MutationProbability = d.MutationProbability
	}
	if c.BestRetryThreshold <= 0 {
		c.BestRetryThreshold = d.BestRetryThreshold
	}
	if c.DemandRetryThreshold <= 0 {
		c.DemandRetryThreshold = d.DemandRetryThreshold
	}
	if c.MaxDuplicateDraws <= 0 {
		c.MaxDuplicateDraws = d.MaxDuplicateDraws
	}
	return c
}

// optimizer drives one run of the evolutionary search. All pools are
// exclusively owned by a single optimizer instance; the search is
// single-threaded and synchronous end to end.
type optimizer struct {
	beamLength          int
	uniqueLengths       []int
	required            demandMap
	totalElementsLength int
	cfg                 Config
	rng                 *rand.Rand

	repo *patternRepository

	// Transient per-generation working sets.
	crossed          []model.CutPattern
	elite            []model.CutPattern
	solutionPatterns []model.CutPattern
	solutions        []model.Genome
	eliteSolution    []eliteEntry
}

func newOptimizer(req model.CutRequest, cfg Config, seed int64) *optimizer {
	unique := req.UniqueLengths()
	required := demandMap(req.LengthCounts())
	return &optimizer{
		beamLength:          req.BeamLength,
		uniqueLengths:       unique,
		required:            required,
		totalElementsLength: req.TotalLength(),
		cfg:                 cfg.withDefaults(),
		rng:                 rand.New(rand.NewSource(seed)),
		repo:                newPatternRepository(req.BeamLength, unique),
	}
}

// Optimize runs the genetic algorithm for the given request and returns
// the best genome found, the patterns it references, its total waste
// and the distinct-length histogram. The caller is responsible for
// validating the request (see model.CutRequest.Validate); the search
// itself has no timeout, so callers wanting a time bound must limit
// GenerationCount.
func Optimize(req model.CutRequest, cfg Config, seed int64) (model.CutResult, error) {
	return newOptimizer(req, cfg, seed).run()
}

func (o *optimizer) run() (model.CutResult, error) {
	o.generatePopulation()
	o.calculateBestCutPatterns(o.repo.feasible)

	for gen := 0; gen < o.cfg.GenerationCount-1; gen++ {
		if err := o.evolveGeneration(true); err != nil {
			return model.CutResult{}, err
		}
	}

	// One extra pass without mutation stabilizes the pools before the
	// final selection.
	if err := o.evolveGeneration(false); err != nil {
		return model.CutResult{}, err
	}

	// Last solution build with no further operators.
	if err := o.buildAndCombineSolutions(); err != nil {
		return model.CutResult{}, err
	}

	return o.chooseBest()
}

// evolveGeneration runs one full generational cycle: build both
// solution populations, combine, extract the solution pattern set,
// cross over, select elites, replace the pools and (optionally) mutate
// the best and feasible pools.
func (o *optimizer) evolveGeneration(mutate bool) error {
	if err := o.buildAndCombineSolutions(); err != nil {
		return err
	}
	if err := o.extractSolutionPatterns(); err != nil {
		return err
	}
	o.crossover()
	o.selectElitism()
	o.updateCutPatterns()

	if mutate {
		o.repo.best = o.mutatePool(o.repo.best)
		o.repo.feasible = o.mutatePool(o.repo.feasible)
	}
	return nil
}

// buildAndCombineSolutions builds both solution populations, merges
// them with the carried-over elite genome and records the new elite.
func (o *optimizer) buildAndCombineSolutions() error {
	o.crossed = nil
	o.elite = nil
	o.solutionPatterns = nil

	population1, err := o.buildSolutionPopulation(1)
	if err != nil {
		return err
	}
	population2, err := o.buildSolutionPopulation(2)
	if err != nil {
		return err
	}

	o.solutions = append(population1, population2...)
	o.combineEliteSolution()
	return o.selectEliteSolution()
}

// extractSolutionPatterns collects the distinct-layout patterns
// referenced by the current solution population.
func (o *optimizer) extractSolutionPatterns() error {
	seen := make(map[string]bool)
	for _, genome := range o.solutions {
		for _, e := range genome {
			p, err := o.repo.lookup(e.PatternID)
			if err != nil {
				return err
			}
			key := layoutKey(p.Layout)
			if !seen[key] {
				seen[key] = true
				o.solutionPatterns = append(o.solutionPatterns, p)
			}
		}
	}
	return nil
}

// chooseBest selects the minimum-waste genome of the final solution
// population (ties broken by fewest entries) and resolves the pattern
// objects it references.
func (o *optimizer) chooseBest() (model.CutResult, error) {
	best, waste, err := o.pickBestSolution()
	if err != nil {
		return model.CutResult{}, err
	}

	patterns := make([]model.CutPattern, 0, len(best))
	for _, e := range best {
		p, err := o.repo.lookup(e.PatternID)
		if err != nil {
			return model.CutResult{}, err
		}
		patterns = append(patterns, p.Clone())
	}

	counts := make(map[int]int, len(o.required))
	for length, count := range o.required {
		counts[length] = count
	}

	unique := make([]int, len(o.uniqueLengths))
	copy(unique, o.uniqueLengths)

	return model.CutResult{
		Genome:        best,
		Patterns:      patterns,
		TotalWaste:    waste,
		LengthCounts:  counts,
		UniqueLengths: unique,
		BeamLength:    o.beamLength,
	}, nil
}
