// Package logging builds the zerolog loggers shared by the site.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to w at the given level.
// Unknown or empty levels fall back to info.
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Console returns a human readable logger for CLI commands.
func Console(level string) zerolog.Logger {
	return New(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// Component returns a child logger annotated with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
