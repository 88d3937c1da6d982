package experiment

import (
	"path/filepath"
	"testing"
)

func TestSummaryStatsPath(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		expected string
	}{
		{"absolute", "/data/run-42", filepath.Join("/data/run-42", "artifacts", "summary_stats.md")},
		{"relative", "run-42", filepath.Join("run-42", "artifacts", "summary_stats.md")},
		{"trailing slash", "run-42/", filepath.Join("run-42", "artifacts", "summary_stats.md")},
		{"current dir", ".", filepath.Join("artifacts", "summary_stats.md")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummaryStatsPath(tt.dir); got != tt.expected {
				t.Errorf("SummaryStatsPath(%q) = %q, want %q", tt.dir, got, tt.expected)
			}
		})
	}
}
