package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload/cmd"
)

func eagerMain(command *cobra.Command, arguments []string) error {
	e, err := buildEngine()
	if err != nil {
		return err
	}
	if err := e.Setup(); err != nil {
		return err
	}

	failures := e.EagerLoad()
	for name, loadErr := range failures {
		cmd.Warning(fmt.Sprintf("%s: %v", name, loadErr))
	}

	stats := e.Stats()
	fmt.Printf("loaded %s of %s registered names (%s failures)\n",
		humanize.Comma(int64(stats.Loaded)),
		humanize.Comma(int64(stats.Registered)),
		humanize.Comma(int64(len(failures))),
	)
	return nil
}

var eagerCommand = &cobra.Command{
	Use:   "eager",
	Short: "Eagerly load every registered name",
	Args:  cmd.DisallowArguments,
	Run:   cmd.Mainify(eagerMain),
}
