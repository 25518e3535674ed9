package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures the process logger
type Options struct {
	Level   string
	Console bool
	Writer  io.Writer
}

// New builds a zerolog logger. Console mode uses the human readable writer.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(w).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// Setup builds the logger and installs it as the global one
func Setup(opts Options) zerolog.Logger {
	l := New(opts)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// ParseLevel falls back to info for empty or unknown values
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
