// Package logger provides process-wide logging for the buildo CLI.
// When verbose mode is enabled via the --verbose flag, debug and progress
// messages are printed to stderr to help operators follow a sync run.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered.
type Format string

const (
	// FormatConsole renders "[LEVEL] message" lines.
	FormatConsole Format = "console"
	// FormatJSON renders one JSON object per line with a timestamp.
	FormatJSON Format = "json"
)

var (
	mu      sync.RWMutex
	verbose bool

	format = FormatConsole
	sink   = zerolog.SyncWriter(os.Stderr)
	log    = build()
)

// build assembles the zerolog logger from the current settings.
// Callers must hold mu for writing, except during package init.
func build() zerolog.Logger {
	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if format == FormatJSON {
		return zerolog.New(sink).Level(level).With().Timestamp().Logger()
	}

	cw := zerolog.ConsoleWriter{
		Out:        sink,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i any) string {
			return "[" + strings.ToUpper(fmt.Sprint(i)) + "]"
		},
	}
	return zerolog.New(cw).Level(level)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sink = zerolog.SyncWriter(w)
	log = build()
}

// SetFormat switches between console and JSON output.
// Unknown formats fall back to console.
func SetFormat(f Format) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatConsole
	}
	format = f
	log = build()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	if format == FormatJSON {
		log.Info().Str("section", name).Send()
		return
	}
	fmt.Fprintf(sink, "\n=== %s ===\n", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info().Msgf(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn().Msgf(format, args...)
}

// Error always prints a message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Msgf(format, args...)
}
