// Package flag provides viper-backed accessors for global command flags.
package flag

import (
	"github.com/spf13/viper"
)

// Verbose returns the count of the --verbose flag.
func Verbose() int {
	return viper.GetInt("verbose")
}

// Quiet returns the count of the --quiet flag.
func Quiet() int {
	return viper.GetInt("quiet")
}

// ConfigFile returns the config file given with the --config flag, or an
// empty string when the default config files should be used.
func ConfigFile() string {
	return viper.GetString("config")
}
