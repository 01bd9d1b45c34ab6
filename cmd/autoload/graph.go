package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload/cmd"
)

func graphMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return fmt.Errorf("expected exactly one logical name")
	}

	e, err := buildEngine()
	if err != nil {
		return err
	}
	if err := e.Setup(); err != nil {
		return err
	}

	deps, err := e.Graph(arguments[0])
	if err != nil {
		return err
	}
	sort.Strings(deps)
	for _, dep := range deps {
		fmt.Println(dep)
	}
	return nil
}

var graphCommand = &cobra.Command{
	Use:   "graph <name>",
	Short: "Print the transitive dependency closure of a logical name",
	Args:  cobra.ExactArgs(1),
	Run:   cmd.Mainify(graphMain),
}
