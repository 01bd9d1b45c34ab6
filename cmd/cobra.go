package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload/internal/logging"
)

// log is the CLI's own sublogger, namespaced under "cli" so command
// invocations are distinguishable from engine-internal log lines (scan,
// reload) in combined output.
var log = logging.RootLogger.Sublogger("cli")

// Mainify wraps a non-standard Cobra entry point (one returning an error)
// and generates a standard Cobra entry point, so that a command can rely on
// deferred cleanup (engine teardown, watcher shutdown) running before the
// process exits, rather than terminating mid-command on a bare os.Exit.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		log.Debugf("running %s", command.Name())
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}
