// Package log configures the process-wide slog logger used by the CLI.
// Derivation itself is pure and logs nothing; logging happens at the
// request/response boundary.
package log

import (
	"log/slog"
	"os"
)

var level = &slog.LevelVar{}

// LoggerOpts configures the default handler. Timestamps are dropped:
// generator output is meant to be diffable across runs.
var LoggerOpts = &slog.HandlerOptions{
	Level: level,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "time" {
			return slog.Attr{}
		}

		return a
	},
}

// DefaultLogger writes text records to stderr so generated output on
// stdout stays clean.
var DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, LoggerOpts))

func init() {
	level.Set(slog.LevelWarn)
	slog.SetDefault(DefaultLogger)
}

// SetLevel adjusts the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}
