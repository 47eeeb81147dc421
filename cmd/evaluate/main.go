package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/evalmetrics"
	"github.com/arkanhadi/ragrader/internal/logger"
)

func main() {
	aiFlag := flag.String("ai", "", "JSON file with AI grading results")
	refFlag := flag.String("ref", "", "JSON file with reference (human) grading results")
	outFlag := flag.String("out", "", "Optional path for the evaluation report JSON")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger.Init(*debugFlag)

	if *aiFlag == "" || *refFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: evaluate -ai results.json -ref reference.json [-out report.json]")
		os.Exit(2)
	}

	ai, err := loadResults(*aiFlag)
	if err != nil {
		logger.Error("Failed to load AI results: %v", err)
		os.Exit(1)
	}
	ref, err := loadResults(*refFlag)
	if err != nil {
		logger.Error("Failed to load reference results: %v", err)
		os.Exit(1)
	}

	if len(ai) != len(ref) {
		n := len(ai)
		if len(ref) < n {
			n = len(ref)
		}
		logger.Warn("Result counts differ (ai=%d, ref=%d), evaluating first %d pairs", len(ai), len(ref), n)
		ai, ref = ai[:n], ref[:n]
	}
	if len(ai) == 0 {
		logger.Error("Nothing to evaluate")
		os.Exit(1)
	}

	report := evalmetrics.ComprehensiveEvaluation(ai, ref)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("Failed to encode report: %v", err)
		os.Exit(1)
	}

	if *outFlag != "" {
		if err := os.WriteFile(*outFlag, data, 0o644); err != nil {
			logger.Error("Failed to write %s: %v", *outFlag, err)
			os.Exit(1)
		}
		logger.Info("Report written to %s", *outFlag)
	} else {
		fmt.Println(string(data))
	}
}

func loadResults(path string) ([]*core.GradingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []*core.GradingResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("invalid results file %s: %w", path, err)
	}
	return results, nil
}
