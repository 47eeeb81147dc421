package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arkanhadi/ragrader/internal/config"
	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/embed"
	"github.com/arkanhadi/ragrader/internal/extract"
	"github.com/arkanhadi/ragrader/internal/grade"
	"github.com/arkanhadi/ragrader/internal/llm"
	"github.com/arkanhadi/ragrader/internal/logger"
	"github.com/arkanhadi/ragrader/internal/rag"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	dataFlag := flag.String("data", "", "Folder with submissions to grade (overrides DATA_FOLDER)")
	rubricFlag := flag.String("rubric", "", "Rubric JSON file (overrides RUBRIC_FILE)")
	outputFlag := flag.String("output", "", "Folder for the results report (overrides OUTPUT_FOLDER)")
	corpusQueryFlag := flag.String("corpus-query", "", "Search the persistent evidence corpus instead of grading")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if *dataFlag != "" {
		cfg.DataFolder = *dataFlag
	}
	if *rubricFlag != "" {
		cfg.RubricFile = *rubricFlag
	}
	if *outputFlag != "" {
		cfg.OutputFolder = *outputFlag
	}

	logger.Init(*debugFlag || cfg.LogLevel == "debug")

	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			logger.Error("Config: %s", p)
		}
		os.Exit(1)
	}
	cfg.LogSummary()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal %v, shutting down", sig)
		cancel()
	}()

	if *corpusQueryFlag != "" {
		if err := queryCorpus(ctx, cfg, *corpusQueryFlag); err != nil {
			logger.Error("Fatal: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg); err != nil {
		logger.Error("Fatal: %v", err)
		os.Exit(1)
	}
}

// queryCorpus searches the persistent evidence corpus across past batch
// runs. Requires a configured Milvus deployment.
func queryCorpus(ctx context.Context, cfg *config.Config, query string) error {
	if cfg.MilvusAddr == "" {
		return fmt.Errorf("corpus query requires MILVUS_ADDR to be set")
	}

	store, err := rag.NewMilvusStore(ctx, cfg.MilvusAddr, cfg.EmbeddingDim)
	if err != nil {
		return fmt.Errorf("failed to connect to corpus store: %w", err)
	}
	defer store.Close()

	embedder := newEmbedder(cfg)
	results, err := rag.SearchCorpus(ctx, store, embedder, query, cfg.TopKRetrieval)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		logger.Info("No corpus chunks match %q", query)
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. [%s] score=%.4f source=%s\n%s\n\n", i+1, r.Document.ID, r.Score, r.Document.Source, r.Document.Text)
	}
	return nil
}

// newEmbedder selects the remote embedder when an endpoint is configured and
// the local deterministic one otherwise.
func newEmbedder(cfg *config.Config) core.EmbedService {
	if cfg.EmbeddingURL != "" {
		logger.Info("Using remote embedding service at %s", cfg.EmbeddingURL)
		return embed.NewHTTPEmbedder(cfg.EmbeddingURL, cfg.OpenRouterKey, cfg.EmbeddingModel, cfg.EmbeddingDim)
	}
	logger.Info("Using local deterministic embedder")
	return embed.NewLocalEmbedder(cfg.EmbeddingDim)
}

func run(ctx context.Context, cfg *config.Config) error {
	rubric, err := grade.LoadRubric(cfg.RubricFile)
	if err != nil {
		return fmt.Errorf("failed to load rubric: %w", err)
	}
	logger.Info("Loaded rubric %q with %d criteria", rubric.Rubric.Name, len(rubric.SubRubrics))

	embedder := newEmbedder(cfg)

	var store core.VectorStore
	if cfg.MilvusAddr != "" {
		store, err = rag.NewMilvusStore(ctx, cfg.MilvusAddr, cfg.EmbeddingDim)
		if err != nil {
			logger.Warn("Milvus unavailable at %s, corpus archiving disabled: %v", cfg.MilvusAddr, err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	grader := llm.NewOpenRouterService(cfg.OpenRouterKey, cfg.OpenRouterURL, cfg.Model, cfg.Temperature)
	processor := grade.NewBatchProcessor(cfg, embedder, grader, extract.NewTextExtractor(), store)

	results, err := processor.ProcessFolder(ctx, cfg.DataFolder, rubric)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		logger.Warn("No documents graded")
		return nil
	}

	reportPath, err := writeReport(cfg.OutputFolder, results)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Results written to %s", reportPath)

	grade.Summarize(results, cfg.MinConfidenceThreshold).Log()
	return nil
}

// writeReport saves the full result set as indented JSON under the output
// folder, stamped so consecutive runs never clobber each other.
func writeReport(folder string, results []*core.GradingResult) (string, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("grading_results_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(folder, name)

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
