package model

// AppConfig holds application-wide preferences and default optimizer
// parameters. It is persisted as JSON by the project package.
type AppConfig struct {
	// Default genetic algorithm parameters applied to new runs
	PopulationSize                        int     `json:"population_size"`
	GenerationCount                       int     `json:"generation_count"`
	NextGenerationFeasiblePatternsPercent float64 `json:"next_generation_feasible_patterns_percent"`
	MutationProbability                   float64 `json:"mutation_probability"`

	// Application preferences
	DatabasePath   string   `json:"database_path"`   // SQLite file, "" = no persistence
	OutputDir      string   `json:"output_dir"`      // default directory for exports
	HistoryDepth   int      `json:"history_depth"`   // max retained run records, 0 = disabled
	RecentCutLists []string `json:"recent_cut_lists"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		PopulationSize:                        50,
		GenerationCount:                       100,
		NextGenerationFeasiblePatternsPercent: 0.8,
		MutationProbability:                   0.2,
		DatabasePath:                          "",
		OutputDir:                             ".",
		HistoryDepth:                          50,
		RecentCutLists:                        []string{},
	}
}

// Normalize clamps out-of-range values back to their defaults so a
// hand-edited config file cannot stall the optimizer.
func (c *AppConfig) Normalize() {
	defaults := DefaultAppConfig()
	if c.PopulationSize <= 0 {
		c.PopulationSize = defaults.PopulationSize
	}
	if c.GenerationCount <= 0 {
		c.GenerationCount = defaults.GenerationCount
	}
	if c.NextGenerationFeasiblePatternsPercent <= 0 || c.NextGenerationFeasiblePatternsPercent > 1 {
		c.NextGenerationFeasiblePatternsPercent = defaults.NextGenerationFeasiblePatternsPercent
	}
	if c.MutationProbability < 0 || c.MutationProbability > 1 {
		c.MutationProbability = defaults.MutationProbability
	}
	if c.HistoryDepth < 0 {
		c.HistoryDepth = defaults.HistoryDepth
	}
	if c.RecentCutLists == nil {
		c.RecentCutLists = []string{}
	}
}

// AddRecentCutList prepends a path to the recent list, removing
// duplicates and keeping at most max entries.
func (c *AppConfig) AddRecentCutList(path string, max int) {
	filtered := make([]string, 0, len(c.RecentCutLists)+1)
	filtered = append(filtered, path)
	for _, p := range c.RecentCutLists {
		if p != path {
			filtered = append(filtered, p)
		}
	}
	if max > 0 && len(filtered) > max {
		filtered = filtered[:max]
	}
	c.RecentCutLists = filtered
}
