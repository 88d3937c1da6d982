// Package util provides the evaluation flow for experiment reports.
package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/swe-bench/swe-eval-helper/experiment"
)

// SummaryNotFoundError indicates that the summary stats report is missing
// from the experiment directory.
type SummaryNotFoundError struct {
	Path string
}

func (e *SummaryNotFoundError) Error() string {
	return fmt.Sprintf("summary file not found at %s", e.Path)
}

// NoMetricsError indicates that the report exists but no extraction rule
// matched its content.
type NoMetricsError struct {
	Path string
}

func (e *NoMetricsError) Error() string {
	return fmt.Sprintf("could not parse any metrics from %s", e.Path)
}

// IsEvalFailure returns true if err is one of the expected evaluation
// failures whose diagnostic CmdEvaluate has already printed on stdout.
func IsEvalFailure(err error) bool {
	var notFound *SummaryNotFoundError
	var noMetrics *NoMetricsError
	return errors.As(err, &notFound) || errors.As(err, &noMetrics)
}

// CmdEvaluate evaluates the summary stats report of the experiment in
// experimentDir and prints the extracted metrics on stdout. The two
// expected failures (missing report, no metrics parsed) print their
// diagnostic on stdout and return a typed error, see IsEvalFailure.
func CmdEvaluate(experimentDir, configFile string) error {
	summaryPath := experiment.SummaryStatsPath(experimentDir)
	if !Exist(summaryPath) {
		fmt.Printf("Error: Summary file not found at %s\n", summaryPath)
		return &SummaryNotFoundError{Path: summaryPath}
	}

	rules, err := LoadRules(configFile, experimentDir)
	if err != nil {
		return err
	}
	log.Debugf("scanning %s with %d extraction rules", summaryPath, len(rules))

	data, err := os.ReadFile(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", summaryPath, err)
	}

	metrics := ExtractMetrics(string(data), rules)
	if len(metrics) == 0 {
		fmt.Printf("Error: Could not parse any metrics from %s\n", summaryPath)
		return &NoMetricsError{Path: summaryPath}
	}

	return printEvaluationReport(metrics)
}

// printEvaluationReport prints the human-readable summary, then a pretty
// JSON dump of all metrics. The success rate line appears only when the
// success_rate metric is present.
func printEvaluationReport(metrics Metrics) error {
	fmt.Println("SWE-bench Evaluation Results:")
	if rate, ok := metrics["success_rate"]; ok {
		fmt.Printf("  Success Rate: %.2f%% (%d/%d)\n",
			rate, int(metrics["resolved_count"]), int(metrics["resolved_total"]))
	}

	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	fmt.Println()
	fmt.Println("Metrics (JSON):")
	fmt.Println(string(data))
	return nil
}
