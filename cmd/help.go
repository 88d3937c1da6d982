package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const groupAnnotationKey = "group"

// flagUsagesByGroup formats local flags by their "group" annotation.
// Flags with the same group are printed under a section header, in the
// order the groups first appear. Flags without a group annotation are
// printed under "Other options". Falls back to the default FlagUsages
// if no flags have group annotations.
func flagUsagesByGroup(cmd *cobra.Command) string {
	fs := cmd.LocalFlags()
	if fs == nil || !cmd.HasAvailableLocalFlags() {
		return ""
	}

	var groupOrder []string
	groups := make(map[string][]*pflag.Flag)
	hasAnyGroup := false

	fs.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		group := "Other options"
		if flag.Annotations != nil {
			if g, ok := flag.Annotations[groupAnnotationKey]; ok && len(g) > 0 {
				group = g[0]
				hasAnyGroup = true
			}
		}
		// Cobra adds --help and --version after command creation; show them
		// under General options.
		if group == "Other options" && (flag.Name == "help" || flag.Name == "version") {
			group = "General options"
		}
		if _, seen := groups[group]; !seen {
			groupOrder = append(groupOrder, group)
		}
		groups[group] = append(groups[group], flag)
	})

	if !hasAnyGroup {
		return fs.FlagUsages()
	}

	var buf bytes.Buffer
	for _, group := range groupOrder {
		fmt.Fprintf(&buf, "\n%s:\n", group)
		formatFlags(&buf, groups[group])
	}
	return strings.TrimPrefix(buf.String(), "\n")
}

type flagUsageLine struct {
	head  string
	usage string
}

func formatFlags(buf *bytes.Buffer, flags []*pflag.Flag) {
	lines := make([]flagUsageLine, 0, len(flags))
	maxlen := 0

	for _, flag := range flags {
		var line flagUsageLine
		if flag.Shorthand != "" && flag.ShorthandDeprecated == "" {
			line.head = fmt.Sprintf("  -%s, --%s", flag.Shorthand, flag.Name)
		} else {
			line.head = fmt.Sprintf("      --%s", flag.Name)
		}

		varname, usage := pflag.UnquoteUsage(flag)
		if varname != "" {
			line.head += " " + varname
		}
		line.usage = usage

		// Bool flags imply =true and count flags imply =+1; both are
		// noise in the usage text.
		switch flag.Value.Type() {
		case "bool", "count":
		default:
			if flag.NoOptDefVal != "" {
				line.head += fmt.Sprintf("[=%s]", flag.NoOptDefVal)
			}
		}

		if !isZeroValue(flag) {
			if flag.Value.Type() == "string" {
				line.usage += fmt.Sprintf(" (default %q)", flag.DefValue)
			} else {
				line.usage += fmt.Sprintf(" (default %s)", flag.DefValue)
			}
		}

		if len(line.head) > maxlen {
			maxlen = len(line.head)
		}
		lines = append(lines, line)
	}

	for _, line := range lines {
		spacing := strings.Repeat(" ", maxlen-len(line.head))
		fmt.Fprintln(buf, line.head, spacing, line.usage)
	}
}

func isZeroValue(flag *pflag.Flag) bool {
	switch flag.DefValue {
	case "false", "", "0", "<nil>", "[]":
		return true
	}
	return false
}

func init() {
	cobra.AddTemplateFunc("flagUsagesByGroup", flagUsagesByGroup)
}
