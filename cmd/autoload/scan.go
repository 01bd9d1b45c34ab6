package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload/cmd"
)

func colorForKindName(kind string) func(string, ...any) string {
	switch kind {
	case "package":
		return color.GreenString
	case "namespace":
		return color.CyanString
	default:
		return color.WhiteString
	}
}

func scanMain(command *cobra.Command, arguments []string) error {
	e, err := buildEngine()
	if err != nil {
		return err
	}
	if err := e.Setup(); err != nil {
		return err
	}

	colorize := isatty.IsTerminal(os.Stdout.Fd())

	fmt.Printf("Roots: %s\n\n", strings.Join(e.RootBasenames(), ", "))

	names := e.Registry().Names()
	sort.Strings(names)
	for _, name := range names {
		kind, _ := e.Registry().Kind(name)
		label := kind.String()
		if colorize {
			label = colorForKindName(label)(label)
		}
		fmt.Printf("%-10s %s\n", label, name)
	}

	stats := e.Stats()
	fmt.Printf("\n%s names registered (%s packages, %s namespaces, %s modules)\n",
		humanize.Comma(int64(stats.Registered)),
		humanize.Comma(int64(stats.Packages)),
		humanize.Comma(int64(stats.Namespaces)),
		humanize.Comma(int64(stats.Modules)),
	)
	return nil
}

var scanCommand = &cobra.Command{
	Use:   "scan",
	Short: "Scan configured roots and print the resulting registry",
	Args:  cmd.DisallowArguments,
	Run:   cmd.Mainify(scanMain),
}
