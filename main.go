package main

import (
	"fmt"
	"os"

	"github.com/swe-bench/swe-eval-helper/cmd"
)

const (
	// Program is name for this project
	Program = "swe-eval-helper"
)

func main() {
	resp := cmd.Execute()

	if resp.Err != nil {
		errOut := resp.Cmd.ErrOrStderr()
		if resp.IsUserError() {
			if resp.Cmd.SilenceErrors {
				fmt.Fprintf(errOut, "ERROR: %s\n\n", resp.Err)
			}
			fmt.Fprint(errOut, resp.Cmd.UsageString())
		} else if !resp.IsReported() && resp.Cmd.SilenceErrors {
			fmt.Fprintf(errOut, "ERROR: %s: %s\n", Program, resp.Err)
		}
		os.Exit(1)
	}
}
