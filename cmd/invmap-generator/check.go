package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"invmap-generator/internal/decl"
	"invmap-generator/internal/derive"
	"invmap-generator/internal/log"
)

var checkCmd = &cobra.Command{
	Use:          "check schema.yaml",
	Short:        "Run every derivation a schema asks for without writing files",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var checkLogLevel *int

func init() {
	checkLogLevel = checkCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*checkLogLevel))

	set, err := decl.LoadFile(args[0])
	if err != nil {
		return err
	}

	defs, diags := derive.DeriveAll(set)
	reportDiagnostics(cmd, diags)

	if diags.HasErrors() {
		return fmt.Errorf("%d of %d derivation(s) failed", len(diags.Errors), len(set.Requests))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d definition(s) derivable\n", len(defs))

	return nil
}
