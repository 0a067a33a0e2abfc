package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

func integrityConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 20
	cfg.GenerationCount = 10
	return cfg
}

func TestOptimize_ResultIntegrity(t *testing.T) {
	req := model.CutRequest{
		BeamLength:     100,
		ElementLengths: []int{50, 50, 30, 30, 20, 20, 20, 40},
	}

	result, err := Optimize(req, integrityConfig(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, result.Genome)

	// Every genome entry must reference a carried pattern, and every
	// pattern layout must line up with the canonical length ordering.
	assert.Equal(t, req.UniqueLengths(), result.UniqueLengths)
	for _, entry := range result.Genome {
		require.Greater(t, entry.Repetition, 0)
		pattern, ok := result.PatternByID(entry.PatternID)
		require.True(t, ok, "genome references pattern %s", entry.PatternID)
		assert.Len(t, pattern.Layout, len(result.UniqueLengths))
		assert.Equal(t, req.BeamLength, pattern.StockSize)
		assert.GreaterOrEqual(t, pattern.Waste, 0)
	}
}

func TestOptimize_WasteAccounting(t *testing.T) {
	req := model.CutRequest{
		BeamLength:     90,
		ElementLengths: []int{45, 45, 30, 30, 30, 25, 25},
	}

	result, err := Optimize(req, integrityConfig(), 11)
	require.NoError(t, err)

	// Total waste must equal consumed stock minus the demanded material.
	assert.Equal(t, result.StockConsumed()-result.TotalElementsLength(), result.TotalWaste)

	summed := 0
	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		require.True(t, ok)
		summed += entry.Repetition * pattern.Waste
	}
	assert.Equal(t, result.TotalWaste, summed)

	util := result.Utilization()
	assert.Greater(t, util, 0.0)
	assert.LessOrEqual(t, util, 100.0)
}

func TestOptimize_LargerInstance(t *testing.T) {
	var lengths []int
	for i := 0; i < 12; i++ {
		lengths = append(lengths, 35, 22, 18)
	}
	req := model.CutRequest{BeamLength: 120, ElementLengths: lengths}

	result, err := Optimize(req, integrityConfig(), 3)
	require.NoError(t, err)

	counts := make(map[int]int)
	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		require.True(t, ok)
		for i, c := range pattern.Layout {
			counts[result.UniqueLengths[i]] += entry.Repetition * c
		}
	}
	for length, want := range req.LengthCounts() {
		assert.Equal(t, want, counts[length], "coverage for length %d", length)
	}
}
