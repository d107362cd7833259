// Package logger wraps charmbracelet/log with a process-wide logger that can
// rotate its file output through lumberjack.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
		Prefix:          "streakd",
	})
	closer io.Closer
)

// Config holds logger configuration
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File, when set, receives log output with rotation in place of stderr.
	File string
	// Format is text, json or logfmt. Empty means text.
	Format string
	// Debug forces debug level, caller reporting and a copy of file output on stderr.
	Debug bool
}

// Init replaces the global logger according to cfg.
func Init(cfg Config) error {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	formatter, err := parseFormat(cfg.Format)
	if err != nil {
		return err
	}

	var writer io.Writer = os.Stderr
	var fileWriter *lumberjack.Logger
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		fileWriter = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = fileWriter
		if cfg.Debug {
			writer = io.MultiWriter(os.Stderr, fileWriter)
		}
	}

	next := log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "streakd",
		Formatter:       formatter,
	})

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		closer.Close()
		closer = nil
	}
	if fileWriter != nil {
		closer = fileWriter
	}
	logger = next
	return nil
}

// SetOutput points the global logger at w, keeping its level and format.
// Used by tests to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Close flushes and releases the rotating log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func parseFormat(format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q: expected text, json or logfmt", format)
	}
}

// L returns the current global logger.
func L() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// StdLogger adapts the global logger for APIs that need a *log.Logger,
// such as http.Server.ErrorLog. Lines are written at error level.
func StdLogger() *stdlog.Logger {
	return L().StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	L().Debug(msg, keyvals...)
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	L().Info(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	L().Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	L().Error(msg, keyvals...)
}
