package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/engine"
	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// RunRecord captures one completed optimization for later review.
type RunRecord struct {
	Version    string             `json:"version"`
	CreatedAt  string             `json:"created_at"`
	BeamLength int                `json:"beam_length"`
	Lengths    []int              `json:"lengths"`
	Seed       int64              `json:"seed"`
	Summary    engine.RunSummary  `json:"summary"`
	Patterns   []model.CutPattern `json:"patterns"`
	Genome     model.Genome       `json:"genome"`
}

// DefaultHistoryDir returns the directory where run records are kept.
func DefaultHistoryDir() string {
	return filepath.Join(DefaultConfigDir(), "history")
}

// SaveRunRecord writes a timestamped run record into dir and prunes the
// oldest records beyond maxRecords. A maxRecords of zero disables
// history and is a no-op.
func SaveRunRecord(dir string, req model.CutRequest, result model.CutResult, seed int64, maxRecords int) (string, error) {
	if maxRecords == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	now := time.Now().UTC()
	record := RunRecord{
		Version:    "1.0.0",
		CreatedAt:  now.Format(time.RFC3339),
		BeamLength: req.BeamLength,
		Lengths:    req.ElementLengths,
		Seed:       seed,
		Summary:    engine.Summarize(result),
		Patterns:   result.Patterns,
		Genome:     result.Genome,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run record: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", now.Format("20060102-150405.000000000")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run record: %w", err)
	}

	if err := pruneHistory(dir, maxRecords); err != nil {
		return path, err
	}
	return path, nil
}

// LoadRunRecord reads a single run record back from disk.
func LoadRunRecord(path string) (RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to read run record: %w", err)
	}
	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return RunRecord{}, fmt.Errorf("failed to parse run record: %w", err)
	}
	if record.Version == "" {
		return RunRecord{}, fmt.Errorf("invalid run record: missing version field")
	}
	return record, nil
}

// ListRunRecords returns the run record paths in dir, newest first.
func ListRunRecords(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "run-*.json"))
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}

// pruneHistory removes the oldest records so at most maxRecords remain.
func pruneHistory(dir string, maxRecords int) error {
	if maxRecords < 0 {
		return nil
	}
	records, err := ListRunRecords(dir)
	if err != nil {
		return err
	}
	for _, path := range records[min(maxRecords, len(records)):] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to prune run record: %w", err)
		}
	}
	return nil
}
