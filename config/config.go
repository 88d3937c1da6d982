// Package config provides configuration structures and loading for
// user-supplied metric extraction rules.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ConfigFileBasename is the configuration file name. The file is looked up
// in the user home directory (with a leading dot) and in the experiment
// directory, unless an explicit file is given with --config.
const ConfigFileBasename = "swe-eval-helper.yaml"

// EvalConfig holds the complete evaluation configuration.
type EvalConfig struct {
	Metrics []MetricPattern `yaml:"metrics"`
}

// MetricPattern defines one user-supplied extraction rule. Exactly one of
// Name and Names must be set. The pattern needs one capture group per
// name; each group is parsed as the numeric value of the matching name.
type MetricPattern struct {
	Name    string   `yaml:"name"`
	Names   []string `yaml:"names"`
	Pattern string   `yaml:"pattern"`
}

// MetricNames returns the metric names of the pattern, regardless of
// whether they were given with "name" or "names".
func (v *MetricPattern) MetricNames() []string {
	if v.Name != "" {
		return []string{v.Name}
	}
	return v.Names
}

// Validate checks all metric patterns of the configuration.
func (v *EvalConfig) Validate() error {
	for i := range v.Metrics {
		if err := v.Metrics[i].Validate(); err != nil {
			return fmt.Errorf("metrics[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks one metric pattern: the names, the pattern syntax, and
// that the pattern has one capture group per name.
func (v *MetricPattern) Validate() error {
	if v.Name != "" && len(v.Names) > 0 {
		return fmt.Errorf("name and names are mutually exclusive")
	}
	names := v.MetricNames()
	if len(names) == 0 {
		return fmt.Errorf("missing metric name")
	}
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("empty metric name")
		}
	}
	label := strings.Join(names, ", ")
	if v.Pattern == "" {
		return fmt.Errorf("missing pattern for metric %s", label)
	}
	re, err := regexp.Compile(v.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern for metric %s: %w", label, err)
	}
	if re.NumSubexp() != len(names) {
		return fmt.Errorf("pattern for metric %s has %d capture groups, want %d",
			label, re.NumSubexp(), len(names))
	}
	return nil
}

// loadConfigFromFile reads and parses one YAML configuration file.
func loadConfigFromFile(path string) (*EvalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config := &EvalConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// mergeConfigs appends the override rules after the base rules. Rules are
// independent of each other, so merging keeps both sets active; later
// rules win when two rules name the same metric.
func mergeConfigs(base, override *EvalConfig) *EvalConfig {
	merged := &EvalConfig{}
	merged.Metrics = append(merged.Metrics, base.Metrics...)
	merged.Metrics = append(merged.Metrics, override.Metrics...)
	return merged
}

// LoadEvalConfig loads the evaluation configuration. When configFile is
// not empty only this file is used. Otherwise ~/.swe-eval-helper.yaml and
// <experimentDir>/swe-eval-helper.yaml are merged, in that order. Missing
// files are ignored; an empty configuration means built-in rules only.
func LoadEvalConfig(configFile, experimentDir string) (*EvalConfig, error) {
	if configFile != "" {
		config, err := loadConfigFromFile(configFile)
		if err != nil {
			return nil, err
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
		}
		return config, nil
	}

	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+ConfigFileBasename))
	}
	if experimentDir != "" {
		paths = append(paths, filepath.Join(experimentDir, ConfigFileBasename))
	}

	merged := &EvalConfig{}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			log.Debugf("config %s not found, skipping", path)
			continue
		}
		config, err := loadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		merged = mergeConfigs(merged, config)
	}
	return merged, nil
}
