// Package cmd provides small helpers shared by the engine's command-line
// front end.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/go-autoload/autoload"
)

// Warning prints a warning message to standard error, in the style the
// eager and watch subcommands use for individual failures (a unit's load,
// a forced reload) that shouldn't abort the whole run.
func Warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// Error prints an error message to standard error. A *autoload.
// ConfigurationError (bad flags, no roots configured) is labeled
// distinctly from a runtime failure (a load or parse error) so a user can
// tell which half of the command went wrong without reading a stack of
// wrapped errors.
func Error(err error) {
	var configErr *autoload.ConfigurationError
	if errors.As(err, &configErr) {
		fmt.Fprintln(color.Error, color.RedString("Configuration error:"), configErr.Reason)
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}

// Fatal prints err and terminates the process. Configuration errors exit
// with status 2 (the conventional usage-error code); every other failure
// exits with status 1.
func Fatal(err error) {
	Error(err)
	var configErr *autoload.ConfigurationError
	if errors.As(err, &configErr) {
		os.Exit(2)
	}
	os.Exit(1)
}
