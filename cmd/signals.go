package cmd

import (
	"os"
	"syscall"
)

// TerminationSignals lists the signals that should trigger a graceful
// shutdown of a long-running command (the watch subcommand).
var TerminationSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

// ReloadSignal triggers an immediate, full Engine.Reload independent of
// filesystem events, the same way SIGHUP conventionally tells a long-running
// daemon to reread its configuration.
var ReloadSignal os.Signal = syscall.SIGHUP
