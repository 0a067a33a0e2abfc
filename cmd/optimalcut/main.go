// OptimalCut — 1D Cut List Optimizer
//
// A command line tool that packs demanded element lengths onto stock
// beams with minimal waste, using a genetic algorithm over cutting
// patterns.
//
// Build:
//   go build -o optimalcut ./cmd/optimalcut
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o optimalcut.exe ./cmd/optimalcut
//   GOOS=darwin  GOARCH=amd64 go build -o optimalcut-darwin ./cmd/optimalcut

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/engine"
	"github.com/mnykolaichuk96/WebOptimalCutting/internal/export"
	"github.com/mnykolaichuk96/WebOptimalCutting/internal/importer"
	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
	"github.com/mnykolaichuk96/WebOptimalCutting/internal/project"
	"github.com/mnykolaichuk96/WebOptimalCutting/internal/storage"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "cut list file (.txt, .csv, .xlsx)")
		beamLength = flag.Int("beam", 0, "beam length (required for -lengths, .csv and .xlsx input)")
		lengthsArg = flag.String("lengths", "", "comma-separated element lengths, e.g. 50,50,30")
		configPath = flag.String("config", project.DefaultConfigPath(), "application config file")

		popSize  = flag.Int("pop", 0, "population size (overrides config)")
		genCount = flag.Int("gens", 0, "generation count (overrides config)")
		keepPct  = flag.Float64("keep", 0, "surviving feasible pattern fraction (overrides config)")
		mutation = flag.Float64("mutation", -1, "mutation probability (overrides config)")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pdfPath    = flag.String("pdf", "", "write the cutting plan as a PDF diagram")
		labelsPath = flag.String("labels", "", "write QR pattern labels as a PDF")
		dxfPath    = flag.String("dxf", "", "write the cutting plan as a DXF drawing")
		dbPath     = flag.String("db", "", "persist the run into a SQLite database (overrides config)")
		noHistory  = flag.Bool("no-history", false, "skip writing the run history record")
	)
	flag.Parse()

	if err := run(*inputPath, *beamLength, *lengthsArg, *configPath,
		*popSize, *genCount, *keepPct, *mutation, *seed,
		*pdfPath, *labelsPath, *dxfPath, *dbPath, *noHistory); err != nil {
		log.Fatalf("optimalcut: %v", err)
	}
}

func run(inputPath string, beamLength int, lengthsArg, configPath string,
	popSize, genCount int, keepPct, mutation float64, seed int64,
	pdfPath, labelsPath, dxfPath, dbPath string, noHistory bool) error {

	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	req, err := buildRequest(inputPath, beamLength, lengthsArg)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid cut list: %w", err)
	}

	cfg := engine.Config{
		PopulationSize:                        config.PopulationSize,
		GenerationCount:                       config.GenerationCount,
		NextGenerationFeasiblePatternsPercent: config.NextGenerationFeasiblePatternsPercent,
		MutationProbability:                   config.MutationProbability,
	}
	if popSize > 0 {
		cfg.PopulationSize = popSize
	}
	if genCount > 0 {
		cfg.GenerationCount = genCount
	}
	if keepPct > 0 && keepPct <= 1 {
		cfg.NextGenerationFeasiblePatternsPercent = keepPct
	}
	if mutation >= 0 && mutation <= 1 {
		cfg.MutationProbability = mutation
	}

	log.Printf("optimizing %d elements on beams of length %d (seed %d)",
		len(req.ElementLengths), req.BeamLength, seed)

	result, err := engine.Optimize(req, cfg, seed)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	summary := engine.Summarize(result)
	log.Printf("beams used: %d", summary.BeamsUsed)
	log.Printf("distinct patterns: %d", summary.DistinctPatterns)
	log.Printf("total waste: %d (%.2f%%)", summary.TotalWaste, summary.WastePercent)
	log.Printf("utilization: %.2f%%", summary.Utilization)
	printPlan(result)

	if pdfPath != "" {
		if err := export.ExportPDF(pdfPath, result); err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
		log.Printf("wrote cutting plan to %s", pdfPath)
	}
	if labelsPath != "" {
		if err := export.ExportLabels(labelsPath, result); err != nil {
			return fmt.Errorf("export labels: %w", err)
		}
		log.Printf("wrote pattern labels to %s", labelsPath)
	}
	if dxfPath != "" {
		if err := export.ExportDXF(dxfPath, result); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
		log.Printf("wrote DXF drawing to %s", dxfPath)
	}

	if dbPath == "" {
		dbPath = config.DatabasePath
	}
	if dbPath != "" {
		if err := persistRun(dbPath, req, result); err != nil {
			return fmt.Errorf("persist run: %w", err)
		}
	}

	if !noHistory {
		if _, err := project.SaveRunRecord(project.DefaultHistoryDir(), req, result, seed, config.HistoryDepth); err != nil {
			log.Printf("warning: could not save run history: %v", err)
		}
	}

	if inputPath != "" {
		abs, err := filepath.Abs(inputPath)
		if err == nil {
			config.AddRecentCutList(abs, 10)
			if err := project.SaveAppConfig(configPath, config); err != nil {
				log.Printf("warning: could not save config: %v", err)
			}
		}
	}

	return nil
}

// buildRequest assembles the cut request from either an input file or
// the -beam and -lengths flags.
func buildRequest(inputPath string, beamLength int, lengthsArg string) (model.CutRequest, error) {
	if inputPath != "" {
		result := importer.ImportFile(inputPath, beamLength)
		for _, w := range result.Warnings {
			log.Printf("import warning: %s", w)
		}
		if len(result.Errors) > 0 {
			return model.CutRequest{}, fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
		}
		return result.Request, nil
	}

	if lengthsArg == "" {
		return model.CutRequest{}, fmt.Errorf("either -input or -beam with -lengths is required")
	}
	if beamLength <= 0 {
		return model.CutRequest{}, fmt.Errorf("-beam must be positive when using -lengths")
	}

	req := model.CutRequest{BeamLength: beamLength}
	for _, field := range strings.Split(lengthsArg, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		length, err := strconv.Atoi(field)
		if err != nil {
			return model.CutRequest{}, fmt.Errorf("invalid length %q", field)
		}
		req.ElementLengths = append(req.ElementLengths, length)
	}
	return req, nil
}

// printPlan writes the solved plan to stdout, one beam row per pattern.
func printPlan(result model.CutResult) {
	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		if !ok {
			continue
		}
		var pieces []string
		for i, count := range pattern.Layout {
			if count == 0 || i >= len(result.UniqueLengths) {
				continue
			}
			pieces = append(pieces, fmt.Sprintf("%dx%d", count, result.UniqueLengths[i]))
		}
		fmt.Fprintf(os.Stdout, "%3d x | %s | waste %d\n",
			entry.Repetition, strings.Join(pieces, " + "), pattern.Waste)
	}
}

// persistRun stores the request and its plan in the SQLite database.
func persistRun(dbPath string, req model.CutRequest, result model.CutResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveResult(ctx, req, result)
	if err != nil {
		return err
	}
	log.Printf("saved run as request %d in %s", id, dbPath)
	return nil
}
