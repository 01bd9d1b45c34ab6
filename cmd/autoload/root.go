package main

import (
	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload/cmd"
)

var rootCommand = &cobra.Command{
	Use:   "autoload",
	Short: "Convention-driven, on-demand loading and hot reloading of code units",
	Run:   cmd.Mainify(rootMain),
}

var rootConfiguration struct {
	// help indicates whether help information should be shown.
	help bool
	// roots lists "path" or "path=topLevel" scan root specifications.
	roots []string
	// extension is the recognized source file extension.
	extension string
	// initializer is the package-initializer basename.
	initializer string
	// ignore lists additional scanner ignore patterns.
	ignore []string
	// configFile is the path to an optional YAML configuration file.
	configFile string
	// envFile is the path to an optional .env environment file.
	envFile string
	// logLevel names the process-wide logging level.
	logLevel string
}

func rootMain(command *cobra.Command, arguments []string) error {
	return command.Help()
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.StringSliceVar(&rootConfiguration.roots, "root", nil, "Scan root, as \"path\" or \"path=topLevel\" (repeatable)")
	flags.StringVar(&rootConfiguration.extension, "ext", ".py", "Recognized source file extension")
	flags.StringVar(&rootConfiguration.initializer, "initializer", "__init__", "Package initializer basename (without extension)")
	flags.StringSliceVar(&rootConfiguration.ignore, "ignore", nil, "Additional scanner ignore pattern (repeatable)")
	flags.StringVar(&rootConfiguration.configFile, "config", "autoload.yaml", "Path to a YAML configuration file")
	flags.StringVar(&rootConfiguration.envFile, "env", ".env", "Path to a .env environment file")
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "", "Logging level: disabled, error, warn, info, or debug")

	cobra.EnableCommandSorting = false
	cobra.MousetrapHelpText = ""

	rootCommand.AddCommand(
		scanCommand,
		eagerCommand,
		watchCommand,
		graphCommand,
		versionCommand,
	)
}
