// Package version defines the version of this program.
package version

// Version is the version of the swe-eval-helper program.
var Version = "0.1.0"
