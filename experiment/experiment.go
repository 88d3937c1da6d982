// Package experiment models the output layout of a benchmark experiment run.
package experiment

import (
	"path/filepath"
)

const (
	// ArtifactsDir is the directory below the experiment root where the
	// evaluation harness writes its output files.
	ArtifactsDir = "artifacts"

	// SummaryStatsFile is the text report with the evaluation statistics,
	// written by the evaluation harness.
	SummaryStatsFile = "summary_stats.md"
)

// SummaryStatsPath returns the conventional location of the summary stats
// report below the experiment root directory. This is the only location
// where the report is looked up.
func SummaryStatsPath(experimentDir string) string {
	return filepath.Join(experimentDir, ArtifactsDir, SummaryStatsFile)
}
