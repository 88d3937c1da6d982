// Package util provides metric extraction from experiment reports.
package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/swe-bench/swe-eval-helper/config"
)

// Metrics maps metric names to the numeric values extracted from a report.
type Metrics map[string]float64

// Rule describes one independent metric extraction: a regular expression
// whose capture groups populate the named metrics in order. The pattern
// must have exactly one capture group per name; CompileRule enforces this
// for rules from configuration.
type Rule struct {
	Names   []string
	Pattern *regexp.Regexp
}

var resolvedPattern = regexp.MustCompile(`Resolved:\s*(\d+)\s*/\s*(\d+)\s*(\d+\.\d+)%`)

// DefaultRules returns the built-in extraction rules. Rules from
// configuration are appended after these, see LoadRules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Names:   []string{"resolved_count", "resolved_total", "success_rate"},
			Pattern: resolvedPattern,
		},
	}
}

// Label returns the metric names of the rule as one comma-separated string.
func (r *Rule) Label() string {
	return strings.Join(r.Names, ", ")
}

// Extract applies the rule to the report content. Only the first match
// counts. Returns nil when the pattern does not match, or when a captured
// value is not a number (the whole rule is then treated as unmatched).
func (r *Rule) Extract(content string) Metrics {
	m := r.Pattern.FindStringSubmatch(content)
	if m == nil {
		log.Debugf("rule %s: no match", r.Label())
		return nil
	}
	metrics := make(Metrics, len(r.Names))
	for i, name := range r.Names {
		value, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			log.Debugf("rule %s: capture %q is not a number, skipping rule",
				r.Label(), m[i+1])
			return nil
		}
		metrics[name] = value
	}
	return metrics
}

// ExtractMetrics scans the report content with each rule in order and
// merges the results. Rules are independent: a rule that does not match
// contributes nothing. When two rules name the same metric, the later
// rule wins. The returned map is empty when no rule matched.
func ExtractMetrics(content string, rules []Rule) Metrics {
	metrics := Metrics{}
	for i := range rules {
		for name, value := range rules[i].Extract(content) {
			metrics[name] = value
		}
	}
	return metrics
}

// CompileRule compiles a configured metric pattern into a Rule. The
// pattern is expected to have passed config validation; compile errors
// are still reported for rules constructed outside LoadEvalConfig.
func CompileRule(pattern config.MetricPattern) (Rule, error) {
	names := pattern.MetricNames()
	re, err := regexp.Compile(pattern.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern for metric %s: %w",
			strings.Join(names, ", "), err)
	}
	if re.NumSubexp() != len(names) {
		return Rule{}, fmt.Errorf("pattern for metric %s has %d capture groups, want %d",
			strings.Join(names, ", "), re.NumSubexp(), len(names))
	}
	return Rule{Names: names, Pattern: re}, nil
}

// LoadRules returns the active extraction rules: the built-in registry
// followed by the rules from configuration. configFile and experimentDir
// select the configuration files, see config.LoadEvalConfig.
func LoadRules(configFile, experimentDir string) ([]Rule, error) {
	cfg, err := config.LoadEvalConfig(configFile, experimentDir)
	if err != nil {
		return nil, err
	}
	rules := DefaultRules()
	for _, pattern := range cfg.Metrics {
		rule, err := CompileRule(pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
