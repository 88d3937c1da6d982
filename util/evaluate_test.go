package util

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

// setupExperimentDir creates an experiment directory holding the given
// summary report content.
func setupExperimentDir(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	artifactsDir := filepath.Join(tmpDir, "artifacts")
	if err := os.MkdirAll(artifactsDir, 0755); err != nil {
		t.Fatalf("failed to create artifacts dir: %v", err)
	}
	file := filepath.Join(artifactsDir, "summary_stats.md")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", file, err)
	}
	return tmpDir
}

// withHomeDir points HOME at dir so a user-level config file cannot leak
// into tests.
func withHomeDir(t *testing.T, dir string) {
	t.Helper()
	oldHome, hadHome := os.LookupEnv("HOME")
	os.Setenv("HOME", dir)
	t.Cleanup(func() {
		if hadHome {
			os.Setenv("HOME", oldHome)
		} else {
			os.Unsetenv("HOME")
		}
	})
}

// runEvaluate runs an evaluation against experimentDir and returns captured stdout.
func runEvaluate(t *testing.T, experimentDir, configFile string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	err := CmdEvaluate(experimentDir, configFile)

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), err
}

// metricsJSON extracts the JSON block that follows the "Metrics (JSON):" header.
func metricsJSON(t *testing.T, output string) string {
	t.Helper()
	header := "Metrics (JSON):\n"
	idx := strings.Index(output, header)
	if idx < 0 {
		t.Fatalf("output is missing the %q header, got: %s", strings.TrimSpace(header), output)
	}
	jsonText := strings.TrimSpace(output[idx+len(header):])
	if !gjson.Valid(jsonText) {
		t.Fatalf("output holds invalid JSON: %s", jsonText)
	}
	return jsonText
}

func TestCmdEvaluate_Success(t *testing.T) {
	withHomeDir(t, t.TempDir())
	tmpDir := setupExperimentDir(t, "Resolved: 10 / 20 50.00%\n")

	output, err := runEvaluate(t, tmpDir, "")
	if err != nil {
		t.Fatalf("CmdEvaluate failed: %v", err)
	}
	if !strings.Contains(output, "SWE-bench Evaluation Results:\n") {
		t.Errorf("output is missing the results header, got: %s", output)
	}
	if !strings.Contains(output, "  Success Rate: 50.00% (10/20)\n") {
		t.Errorf("output is missing the success rate line, got: %s", output)
	}

	jsonText := metricsJSON(t, output)
	if got := gjson.Get(jsonText, "resolved_count").Float(); got != 10 {
		t.Errorf("resolved_count = %v, want 10", got)
	}
	if got := gjson.Get(jsonText, "resolved_total").Float(); got != 20 {
		t.Errorf("resolved_total = %v, want 20", got)
	}
	if got := gjson.Get(jsonText, "success_rate").Float(); got != 50 {
		t.Errorf("success_rate = %v, want 50", got)
	}
}

func TestCmdEvaluate_ZeroValues(t *testing.T) {
	withHomeDir(t, t.TempDir())
	tmpDir := setupExperimentDir(t, "Resolved: 0 / 0 0.00%\n")

	output, err := runEvaluate(t, tmpDir, "")
	if err != nil {
		t.Fatalf("CmdEvaluate failed: %v", err)
	}
	if !strings.Contains(output, "  Success Rate: 0.00% (0/0)\n") {
		t.Errorf("output is missing the zero success rate line, got: %s", output)
	}

	jsonText := metricsJSON(t, output)
	if !gjson.Get(jsonText, "success_rate").Exists() {
		t.Errorf("success_rate should be reported even when zero, got: %s", jsonText)
	}
}

func TestCmdEvaluate_MissingSummaryFile(t *testing.T) {
	withHomeDir(t, t.TempDir())
	tmpDir := t.TempDir()

	output, err := runEvaluate(t, tmpDir, "")
	if err == nil {
		t.Fatal("expected error for missing summary file")
	}
	var notFound *SummaryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *SummaryNotFoundError, got: %v", err)
	}
	summaryFile := filepath.Join(tmpDir, "artifacts", "summary_stats.md")
	if notFound.Path != summaryFile {
		t.Errorf("error path = %s, want %s", notFound.Path, summaryFile)
	}
	expected := "Error: Summary file not found at " + summaryFile + "\n"
	if output != expected {
		t.Errorf("output = %q, want %q", output, expected)
	}
}

func TestCmdEvaluate_NoMetrics(t *testing.T) {
	withHomeDir(t, t.TempDir())
	tmpDir := setupExperimentDir(t, "no useful data here\n")

	output, err := runEvaluate(t, tmpDir, "")
	if err == nil {
		t.Fatal("expected error when no metrics can be parsed")
	}
	var noMetrics *NoMetricsError
	if !errors.As(err, &noMetrics) {
		t.Fatalf("expected *NoMetricsError, got: %v", err)
	}
	summaryFile := filepath.Join(tmpDir, "artifacts", "summary_stats.md")
	expected := "Error: Could not parse any metrics from " + summaryFile + "\n"
	if output != expected {
		t.Errorf("output = %q, want %q", output, expected)
	}
}

func TestCmdEvaluate_ConfiguredRuleWithoutSuccessRate(t *testing.T) {
	withHomeDir(t, t.TempDir())
	tmpDir := setupExperimentDir(t, "Average recall: 0.85\n")

	data := []byte(`metrics:
  - name: avg_recall
    pattern: 'Average recall:\s*(\d+\.\d+)'
`)
	if err := os.WriteFile(filepath.Join(tmpDir, "swe-eval-helper.yaml"), data, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	output, err := runEvaluate(t, tmpDir, "")
	if err != nil {
		t.Fatalf("CmdEvaluate failed: %v", err)
	}
	if !strings.Contains(output, "SWE-bench Evaluation Results:\n") {
		t.Errorf("output is missing the results header, got: %s", output)
	}
	if strings.Contains(output, "Success Rate:") {
		t.Errorf("success rate line should be omitted without a success_rate metric, got: %s", output)
	}

	jsonText := metricsJSON(t, output)
	if got := gjson.Get(jsonText, "avg_recall").Float(); got != 0.85 {
		t.Errorf("avg_recall = %v, want 0.85", got)
	}
	if gjson.Get(jsonText, "resolved_count").Exists() {
		t.Errorf("resolved_count should be absent, got: %s", jsonText)
	}
}

func TestCmdEvaluate_Idempotent(t *testing.T) {
	withHomeDir(t, t.TempDir())
	tmpDir := setupExperimentDir(t, "Resolved: 42 / 100 42.00%\n")

	first, err := runEvaluate(t, tmpDir, "")
	if err != nil {
		t.Fatalf("first CmdEvaluate failed: %v", err)
	}
	second, err := runEvaluate(t, tmpDir, "")
	if err != nil {
		t.Fatalf("second CmdEvaluate failed: %v", err)
	}
	if first != second {
		t.Errorf("repeated runs diverge:\nfirst:  %q\nsecond: %q", first, second)
	}
}
