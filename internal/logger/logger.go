// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the structured diagnostic logger used by both tools.
// User-facing progress lines are not logged here; they go to the command's
// output writer.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/bookbinder/pkg/types"
)

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Setup opens the configured log file and returns a JSON logger writing to
// it, plus a cleanup func that closes the file. With no file configured it
// returns a discarding logger and a no-op cleanup.
func Setup(cfg types.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.File == "" {
		return Discard(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}

	l := New(f, cfg.Verbose)
	l.Info("logger.initialized", "path", cfg.File, "verbose", cfg.Verbose)
	return l, f.Close, nil
}

// New returns a JSON logger writing to w. Timestamps are UTC RFC 3339.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return slog.New(h)
}
