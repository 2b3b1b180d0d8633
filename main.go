package main

import (
	"os"

	"github.com/slicelab/winnow/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "winnow [subcommand]",
	Short:        "winnow\n narrow a program slice to the elements whose values matter",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.NarrowCmd)
}
