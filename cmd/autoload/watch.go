package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload/cmd"
)

func watchMain(command *cobra.Command, arguments []string) error {
	e, err := buildEngine()
	if err != nil {
		return err
	}
	if err := e.Setup(); err != nil {
		return err
	}

	if err := e.EnableReloading(func(name string) {
		fmt.Printf("reloaded %s\n", name)
	}); err != nil {
		return err
	}
	defer e.Teardown()

	fmt.Println("watching for changes, press Ctrl-C to stop (or send SIGHUP to force a full reload)")

	terminate := make(chan os.Signal, 1)
	signal.Notify(terminate, cmd.TerminationSignals...)
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, cmd.ReloadSignal)

	for {
		select {
		case <-terminate:
			return nil
		case <-reload:
			if err := e.Reload(); err != nil {
				cmd.Warning(fmt.Sprintf("forced reload failed: %v", err))
				continue
			}
			fmt.Println("forced reload complete")
		}
	}
}

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "Watch configured roots and reload changed units",
	Args:  cmd.DisallowArguments,
	Run:   cmd.Mainify(watchMain),
}
