package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"invmap-generator/internal/codegen"
	"invmap-generator/internal/common"
	"invmap-generator/internal/decl"
	"invmap-generator/internal/derive"
	"invmap-generator/internal/diagnostic"
	"invmap-generator/internal/log"
)

var generateCmd = &cobra.Command{
	Use:          "generate schema.yaml",
	Short:        "Generate the derived definitions a schema asks for",
	RunE:         runGenerate,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	genOutPath    *string
	genLogLevel   *int
	genType       *string
	genInstance   *int
	genOp         *string
	genNoComments *bool
)

func init() {
	genOutPath = generateCmd.Flags().StringP("out", "o", "generated", "output directory")
	genLogLevel = generateCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
	genType = generateCmd.Flags().StringP("type", "t", "", "derive only this type or family instead of the schema derive lists")
	genInstance = generateCmd.Flags().Int("instance", 0, "family instance ordinal (1-based), used with --type")
	genOp = generateCmd.Flags().String("op", "invmap", "operation to derive with --type (invmap or invmap2)")
	genNoComments = generateCmd.Flags().Bool("no-comments", false, "omit signature comments from generated files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*genLogLevel))

	set, err := decl.LoadFile(args[0])
	if err != nil {
		return err
	}

	defs, diags := deriveTargets(set)
	reportDiagnostics(cmd, diags)

	if diags.HasErrors() {
		return fmt.Errorf("%d derivation(s) failed", len(diags.Errors))
	}

	if common.IsEmpty(defs) {
		slog.Warn("schema requests no derivations", "schema", args[0])

		return nil
	}

	config := codegen.DefaultGeneratorConfig()
	config.SchemaName = filepath.Base(args[0])
	config.GenerateComments = !*genNoComments

	gen := codegen.NewGenerator(config)

	files, err := gen.Generate(defs)
	if err != nil {
		return err
	}

	if err := gen.Write(files, *genOutPath); err != nil {
		return err
	}

	slog.Info("generation complete", "files", len(files), "dir", *genOutPath)

	return nil
}

// deriveTargets derives either the schema's own derive lists or the
// single request selected by --type.
func deriveTargets(set *decl.DeclSet) ([]*codegen.Definition, diagnostic.Diagnostics) {
	if *genType == "" {
		return derive.DeriveAll(set)
	}

	var diags diagnostic.Diagnostics

	arity, err := decl.OpArity(*genOp)
	if err != nil {
		diags.AddError(diagnostic.Errorf(diagnostic.ArityMismatch, *genType, "%v", err))

		return nil, diags
	}

	req := decl.Request{Type: *genType, Instance: *genInstance - 1, Arity: arity}

	def, derr := derive.DeriveRequest(set, req)
	if derr != nil {
		diags.AddError(derr)

		return nil, diags
	}

	return []*codegen.Definition{def}, diags
}
