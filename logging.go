package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

const defaultLogLevel = "warn"

// newLogger creates the diagnostics logger. Diagnostics go to w (stderr in
// practice) so they never mix with the report on stdout.
func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
