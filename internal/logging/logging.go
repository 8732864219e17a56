// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger: a console handler on stderr
// and, when a log file is configured, a JSON handler fanned out to it.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
)

// Options selects the log level and extra sinks.
type Options struct {
	// Verbose lowers the console level from Info to Debug.
	Verbose bool

	// File receives every record, including Debug, as JSON lines.
	File io.Writer
}

// New returns a logger writing to w and, if set, opts.File.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := consoleHandler(w, level, opts.Verbose)
	if opts.File != nil {
		handler = slogmulti.Fanout(
			handler,
			slog.NewJSONHandler(opts.File, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
	return slog.New(handler)
}

func consoleHandler(w io.Writer, level slog.Level, source bool) slog.Handler {
	return console.NewHandler(w, &console.HandlerOptions{
		AddSource: source,
		Level:     level,
	})
}

// Init installs the default logger. When path is non-empty the log file is
// opened for append; the returned func closes it.
func Init(verbose bool, path string) (func() error, error) {
	opts := Options{Verbose: verbose}
	closer := func() error { return nil }
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		opts.File = f
		closer = f.Close
	}
	slog.SetDefault(New(os.Stderr, opts))
	return closer, nil
}
