package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	config := model.DefaultAppConfig()
	config.PopulationSize = 80
	config.DatabasePath = "/tmp/cuts.db"
	config.AddRecentCutList("/tmp/list.txt", 10)

	if err := SaveAppConfig(path, config); err != nil {
		t.Fatalf("SaveAppConfig returned error: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig returned error: %v", err)
	}
	if loaded.PopulationSize != 80 {
		t.Errorf("PopulationSize = %d, want 80", loaded.PopulationSize)
	}
	if loaded.DatabasePath != "/tmp/cuts.db" {
		t.Errorf("DatabasePath = %q", loaded.DatabasePath)
	}
	if len(loaded.RecentCutLists) != 1 || loaded.RecentCutLists[0] != "/tmp/list.txt" {
		t.Errorf("RecentCutLists = %v", loaded.RecentCutLists)
	}
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig returned error: %v", err)
	}
	defaults := model.DefaultAppConfig()
	if loaded.PopulationSize != defaults.PopulationSize {
		t.Errorf("expected default config, got %+v", loaded)
	}
}

func TestLoadAppConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadAppConfig_NormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"population_size": -5, "generation_count": 0, "mutation_probability": 3.0}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig returned error: %v", err)
	}
	defaults := model.DefaultAppConfig()
	if loaded.PopulationSize != defaults.PopulationSize {
		t.Errorf("PopulationSize = %d, want default %d", loaded.PopulationSize, defaults.PopulationSize)
	}
	if loaded.GenerationCount != defaults.GenerationCount {
		t.Errorf("GenerationCount = %d, want default %d", loaded.GenerationCount, defaults.GenerationCount)
	}
	if loaded.MutationProbability != defaults.MutationProbability {
		t.Errorf("MutationProbability = %v, want default %v", loaded.MutationProbability, defaults.MutationProbability)
	}
	if loaded.RecentCutLists == nil {
		t.Error("RecentCutLists should never be nil")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("unexpected config path %q", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".optimalcut" {
		t.Errorf("config should live under .optimalcut, got %q", path)
	}
}
