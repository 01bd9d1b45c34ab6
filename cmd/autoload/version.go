package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-autoload/autoload/cmd"
	"github.com/go-autoload/autoload/internal/buildinfo"
)

func versionMain(command *cobra.Command, arguments []string) error {
	fmt.Println(buildinfo.Version)
	return nil
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cmd.DisallowArguments,
	Run:   cmd.Mainify(versionMain),
}
