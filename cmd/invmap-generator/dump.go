package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"invmap-generator/internal/decl"
	"invmap-generator/internal/derive"
)

var dumpCmd = &cobra.Command{
	Use:          "dump schema.yaml",
	Short:        "Dump the parsed declarations or derived expression trees for debugging",
	RunE:         runDump,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var dumpDefinitions *bool

func init() {
	dumpDefinitions = dumpCmd.Flags().BoolP("definitions", "d", false, "dump derived definitions instead of declarations")
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func runDump(cmd *cobra.Command, args []string) error {
	set, err := decl.LoadFile(args[0])
	if err != nil {
		return err
	}

	if !*dumpDefinitions {
		dumpConfig.Fdump(cmd.OutOrStdout(), set)

		return nil
	}

	defs, diags := derive.DeriveAll(set)
	reportDiagnostics(cmd, diags)
	dumpConfig.Fdump(cmd.OutOrStdout(), defs)

	if diags.HasErrors() {
		return fmt.Errorf("%d derivation(s) failed", len(diags.Errors))
	}

	return nil
}
