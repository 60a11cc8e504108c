package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger zerolog.Logger
	once   sync.Once
)

// Get returns the process logger. LOG_LEVEL selects the level (default debug)
// and LOG_FORMAT=json switches from the console writer to raw JSON lines.
func Get() zerolog.Logger {
	once.Do(func() {
		logger = New(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	})

	return logger
}

// New builds a logger writing to out.
func New(out io.Writer, level string, format string) zerolog.Logger {
	logLevel := zerolog.DebugLevel
	if lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && lvl != zerolog.NoLevel {
		logLevel = lvl
	}

	w := out
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).Level(logLevel).With().Timestamp().Caller().Logger()
}

// Init replaces the process logger. Call it at startup, before any goroutine
// uses Get.
func Init(out io.Writer, level string, format string) {
	once.Do(func() {})
	logger = New(out, level, format)
}
