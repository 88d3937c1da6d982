package cmd

import (
	"fmt"

	"github.com/swe-bench/swe-eval-helper/flag"
	"github.com/swe-bench/swe-eval-helper/util"

	"github.com/spf13/cobra"
)

type listRulesCommand struct {
	cmd *cobra.Command
	O   struct {
		ExperimentDir string
	}
}

func (v *listRulesCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "list-rules",
		Short: "Show the effective metric extraction rules",
		Long: `Show the metric extraction rules an evaluation would use: the built-in
rules first, followed by config-supplied rules in the order they apply.

With --experiment-dir, rules from <experiment-dir>/swe-eval-helper.yaml
are included as well.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	v.cmd.Flags().StringVar(&v.O.ExperimentDir, "experiment-dir", "",
		"experiment directory to load config rules from")

	return v.cmd
}

func (v listRulesCommand) Execute(args []string) error {
	if len(args) > 0 {
		return newUserError("list-rules takes no arguments")
	}

	rules, err := util.LoadRules(flag.ConfigFile(), v.O.ExperimentDir)
	if err != nil {
		return newUserErrorF("%v", err)
	}

	for _, rule := range rules {
		fmt.Println(rule.Label())
		fmt.Printf("  pattern: %s\n", rule.Pattern)
	}

	return nil
}

var listRulesCmd = listRulesCommand{}

func init() {
	rootCmd.AddCommand(listRulesCmd.Command())
}
