// Package cmd provides CLI implementations.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/swe-bench/swe-eval-helper/flag"
	"github.com/swe-bench/swe-eval-helper/util"
	"github.com/swe-bench/swe-eval-helper/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = rootCommand{}

// errorWithUsage marks an error that should display command usage.
type errorWithUsage struct{ msg string }

func (e errorWithUsage) Error() string { return e.msg }

// newUserError creates an error that should display usage (e.g. argument/flag errors).
func newUserError(a ...interface{}) error {
	return errorWithUsage{msg: fmt.Sprintln(a...)}
}

// newUserErrorF creates an error that should display usage.
func newUserErrorF(format string, a ...interface{}) error {
	return errorWithUsage{msg: fmt.Sprintf(format, a...)}
}

// IsErrorWithUsage returns true if the error should display command usage.
func IsErrorWithUsage(err error) bool {
	_, ok := err.(errorWithUsage)
	return ok
}

// Response wraps error for subcommand, and is returned from cmd package.
type Response struct {
	// Err contains error returned from the subcommand executed.
	Err error

	// Cmd contains the command object.
	Cmd *cobra.Command
}

// IsUserError returns true if the error is an argument or flag error and
// command usage should be displayed.
func (resp Response) IsUserError() bool {
	return resp.Err != nil && IsErrorWithUsage(resp.Err)
}

// IsReported returns true if the error has already been reported on stdout
// by the command itself.
func (resp Response) IsReported() bool {
	return resp.Err != nil && util.IsEvalFailure(resp.Err)
}

type rootCommand struct {
	cmd *cobra.Command
	O   struct {
		ExperimentDir string
	}
}

func (v *rootCommand) loadDotEnv() {
	_ = godotenv.Load()
}

func (v *rootCommand) initLog() {
	f := new(log.TextFormatter)
	f.DisableTimestamp = true
	f.DisableLevelTruncation = true
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		f.DisableColors = true
	}
	log.SetFormatter(f)
	verbose := flag.Verbose()
	quiet := flag.Quiet()
	if verbose == 1 {
		log.SetLevel(log.DebugLevel)
	} else if verbose > 1 {
		log.SetLevel(log.TraceLevel)
	} else if quiet == 1 {
		log.SetLevel(log.WarnLevel)
	} else if quiet > 1 {
		log.SetLevel(log.ErrorLevel)
	} else if levelName := os.Getenv("LOG_LEVEL"); levelName != "" {
		if level, err := log.ParseLevel(levelName); err == nil {
			log.SetLevel(level)
		}
	}
}

// Command represents the base command when called without any subcommands
func (v *rootCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "swe-eval-helper --experiment-dir <dir>",
		Short: "Extract evaluation metrics from SWE-bench experiment reports",
		Long: `Read the summary report of a SWE-bench experiment and extract numeric
metrics from it.

The report is expected at <experiment-dir>/artifacts/summary_stats.md.
The built-in pattern recognizes a line such as:

    Resolved: 10 / 20 50.00%

and reports resolved_count, resolved_total and success_rate. Additional
metric patterns can be supplied through a config file (see --config).
The extracted metrics are printed as a human-readable summary followed
by a JSON document.`,
		// Let main.go handle error output; do not show usage on every error
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Version = version.Version
	v.cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)

	fs := v.cmd.Flags()
	fs.SortFlags = false
	fs.StringVar(&v.O.ExperimentDir, "experiment-dir", "",
		"path to the experiment directory holding artifacts/summary_stats.md")
	fs.SetAnnotation("experiment-dir", "group", []string{"Evaluation options"})

	v.cmd.PersistentFlags().CountP("quiet",
		"q",
		"quiet mode")
	v.cmd.PersistentFlags().CountP("verbose",
		"v",
		"verbose mode")
	v.cmd.PersistentFlags().String("config",
		"",
		"load metric patterns from this file (overrides ~/.swe-eval-helper.yaml and <experiment-dir>/swe-eval-helper.yaml)")
	v.cmd.PersistentFlags().SetAnnotation("config", "group", []string{"Evaluation options"})
	v.cmd.PersistentFlags().SetAnnotation("quiet", "group", []string{"Output options"})
	v.cmd.PersistentFlags().SetAnnotation("verbose", "group", []string{"Output options"})

	_ = viper.BindPFlag(
		"quiet",
		v.cmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag(
		"verbose",
		v.cmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag(
		"config",
		v.cmd.PersistentFlags().Lookup("config"))

	// Custom usage template with grouped flags
	v.cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{flagUsagesByGroup . | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	return v.cmd
}

func (v rootCommand) Execute(args []string) error {
	if len(args) > 0 {
		return newUserError("swe-eval-helper takes no arguments")
	}
	if v.O.ExperimentDir == "" {
		return newUserError("the --experiment-dir option is required")
	}
	return util.CmdEvaluate(v.O.ExperimentDir, flag.ConfigFile())
}

func (v *rootCommand) AddCommand(cmds ...*cobra.Command) {
	v.Command().AddCommand(cmds...)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() Response {
	var (
		resp Response
	)

	c, err := rootCmd.Command().ExecuteC()
	resp.Err = err
	resp.Cmd = c
	return resp
}

func init() {
	cobra.OnInitialize(rootCmd.loadDotEnv)
	cobra.OnInitialize(rootCmd.initLog)
}
