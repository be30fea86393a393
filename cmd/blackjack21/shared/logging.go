package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging to stderr.
func SetupLogger(debug bool, level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(debug, level),
	})
	return logger
}

// SetupTUILogger configures logging for commands that own the terminal.
// Output goes to a file when debugging, otherwise it is discarded so it
// cannot corrupt the display.
func SetupTUILogger(debug bool, path string) *log.Logger {
	if !debug {
		return log.New(io.Discard)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard)
	}

	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})
}

func parseLevel(debug bool, level string) log.Level {
	if debug {
		return log.DebugLevel
	}
	if parsed, err := log.ParseLevel(level); err == nil && level != "" {
		return parsed
	}
	return log.InfoLevel
}
