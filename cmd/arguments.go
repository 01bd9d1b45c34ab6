package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload"
)

// DisallowArguments is a Cobra arguments validator that disallows positional
// arguments. It reports the offending values as a *autoload.
// ConfigurationError, rather than a generic error, so that command-line
// misuse exits with the usage-error status Fatal reserves for configuration
// problems instead of the status used for load/runtime failures.
func DisallowArguments(_ *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return &autoload.ConfigurationError{
			Reason: "unexpected arguments: " + strings.Join(arguments, ", "),
		}
	}
	return nil
}
