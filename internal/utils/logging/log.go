// Package logging writes program diagnostics.
//
// Diagnostics never go to stdout, which belongs to the terminal renderer. They are
// written as JSON lines to the log file (if any) and, when debugging, to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mediagrab/internal/domain/regex"

	"github.com/rs/zerolog"
)

var (
	// Level is the debug verbosity. D(l, ...) is emitted when l < Level.
	Level int

	mu     sync.Mutex
	logger = zerolog.Nop()
)

// Config holds logging setup options.
type Config struct {
	LogFilePath string
	DebugLevel  int
	Console     io.Writer // stderr in production; nil disables console output
}

// SetupLogging creates and/or opens the log file and installs the program logger.
// The returned closer releases the log file; it is never nil.
func SetupLogging(cfg Config) (io.Closer, error) {
	mu.Lock()
	defer mu.Unlock()

	Level = cfg.DebugLevel

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)

	if cfg.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
			return closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return closer, fmt.Errorf("failed to open log file %q: %w", cfg.LogFilePath, err)
		}
		writers = append(writers, f)
		closer = f
	}

	if cfg.Console != nil && cfg.DebugLevel > 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: cfg.Console, TimeFormat: time.Kitchen})
	}

	switch len(writers) {
	case 0:
		logger = zerolog.Nop()
	case 1:
		logger = zerolog.New(writers[0]).With().Timestamp().Logger()
	default:
		logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	}

	if cfg.DebugLevel > 0 {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	return closer, nil
}

// E logs an error.
func E(format string, args ...any) string {
	return write(zerolog.ErrorLevel, format, args...)
}

// W logs a warning.
func W(format string, args ...any) string {
	return write(zerolog.WarnLevel, format, args...)
}

// I logs an informational message.
func I(format string, args ...any) string {
	return write(zerolog.InfoLevel, format, args...)
}

// S logs a success message.
func S(format string, args ...any) string {
	return write(zerolog.InfoLevel, "success: "+format, args...)
}

// D logs a debug message at verbosity l.
func D(l int, format string, args ...any) string {
	if l >= Level {
		return ""
	}
	return write(zerolog.DebugLevel, format, args...)
}

func write(lvl zerolog.Level, format string, args ...any) string {
	msg := format
	if len(args) != 0 {
		msg = fmt.Sprintf(format, args...)
	}
	msg = regex.StripANSI(msg)

	mu.Lock()
	defer mu.Unlock()
	logger.WithLevel(lvl).Msg(msg)
	return msg
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
