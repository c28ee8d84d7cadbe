package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Logger defines the logging interface used by the application.
// This abstracts the underlying logging library (hclog).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// Named creates a sublogger with a name component.
	Named(name string) Logger
	// With adds key-value pairs to the logger's context.
	With(args ...interface{}) Logger
}

var _ Logger = (*hclogWrapper)(nil)

// hclogWrapper adapts hclog.Logger to the Logger interface.
type hclogWrapper struct {
	logger hclog.Logger
}

func (w *hclogWrapper) Debug(msg string, args ...interface{}) {
	w.logger.Debug(msg, args...)
}

func (w *hclogWrapper) Info(msg string, args ...interface{}) {
	w.logger.Info(msg, args...)
}

func (w *hclogWrapper) Warn(msg string, args ...interface{}) {
	w.logger.Warn(msg, args...)
}

func (w *hclogWrapper) Error(msg string, args ...interface{}) {
	w.logger.Error(msg, args...)
}

func (w *hclogWrapper) Named(name string) Logger {
	return &hclogWrapper{logger: w.logger.Named(name)}
}

func (w *hclogWrapper) With(args ...interface{}) Logger {
	return &hclogWrapper{logger: w.logger.With(args...)}
}

// appLogger is set by InitializeLogger. Packages that cannot take a logger
// through their constructor reach it via Get.
var appLogger Logger

// New builds a logger writing to out. An unknown level falls back to INFO.
func New(level, format string, out io.Writer) Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}

	return &hclogWrapper{logger: hclog.New(&hclog.LoggerOptions{
		Name:       "matomo-contract",
		Level:      lvl,
		Output:     out,
		JSONFormat: strings.ToLower(format) == "json",
	})}
}

// InitializeLogger creates the application's logger from the configured level
// and format. It should be called early in the application startup.
func InitializeLogger(level, format string) {
	appLogger = New(level, format, os.Stderr)
	appLogger.Debug("Logger initialized", "level", level, "format", format)
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger {
	return &hclogWrapper{logger: hclog.NewNullLogger()}
}

// Get returns the initialized application logger.
// Returns a warn-level fallback if InitializeLogger has not been called.
func Get() Logger {
	if appLogger == nil {
		fallback := &hclogWrapper{logger: hclog.New(&hclog.LoggerOptions{
			Name:  "matomo-contract-fallback",
			Level: hclog.Warn,
		})}
		fallback.Warn("Get() called before InitializeLogger")
		return fallback
	}
	return appLogger
}
