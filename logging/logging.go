// Package logging configures slog for osa-scroll. The TUI owns the terminal,
// so records go to a size-rotated file under the profile directory.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where and how much to log.
type Options struct {
	// Dir is the log directory. Empty means no file.
	Dir   string
	Debug bool
	// Stderr sends records to stderr instead of a file.
	Stderr bool
}

// FileName is the log file inside Options.Dir.
const FileName = "osa-scroll.log"

// Setup builds the logger, installs it as the slog default and returns it
// with a closer for the underlying writer.
func Setup(opts Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level, AddSource: opts.Debug}

	var (
		h      slog.Handler
		closer io.Closer = nopCloser{}
	)
	switch {
	case opts.Stderr:
		h = slog.NewTextHandler(os.Stderr, hopts)
	case opts.Dir != "":
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		h = slog.NewJSONHandler(rotator, hopts)
		closer = rotator
	default:
		h = slog.DiscardHandler
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
