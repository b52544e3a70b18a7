// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures Setup.
type Options struct {
	Level      string    // debug, info, warn or error; info when empty
	File       string    // rotating JSON log file, none when empty
	MaxSizeMB  int64     // rotate once the file would exceed this size
	MaxBackups int       // rotated files kept next to File
	Console    io.Writer // human readable output, os.Stderr when nil
}

// Setup replaces the global logger. Reports go to stdout, so console logs default to
// stderr. The returned closer releases the log file and must be called before exit.
func Setup(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &Rotator{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB * 1024 * 1024,
			MaxBackups: opts.MaxBackups,
		}
		if err := rotator.openExistingOrNew(); err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, rotator)
		closer = rotator
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
	return closer, nil
}

// ParseLevel maps a configured level name to zerolog's, ignoring case.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
