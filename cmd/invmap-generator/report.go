package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"invmap-generator/internal/diagnostic"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// reportDiagnostics prints warnings and derivation failures to stderr,
// colorized when stderr is a terminal.
func reportDiagnostics(cmd *cobra.Command, diags diagnostic.Diagnostics) {
	colored := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	for _, w := range diags.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), paint(colored, colorYellow, "warning: "+w))
	}

	for _, e := range diags.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), paint(colored, colorRed, "error: "+e.Error()))
	}
}

func paint(colored bool, code, s string) string {
	if !colored {
		return s
	}

	return code + s + colorReset
}
