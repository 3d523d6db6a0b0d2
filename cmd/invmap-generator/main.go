// Command invmap-generator derives invariant mapping functions
// (invmap, invmap2) for the data types declared in a YAML schema and
// writes them out as generated source files.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "invmap-generator [subcommand]",
	Short:        "derive invariant mapping functions from a declaration schema",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
}
