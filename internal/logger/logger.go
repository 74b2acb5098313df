// Package logger provides structured logging for bomflow
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with bomflow-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "bomflow").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// StageLogger returns a logger scoped to one pipeline stage
func (l *Logger) StageLogger(stage string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "pipeline").
			Str("stage", stage).
			Logger(),
	}
}

// LogStage logs completion of one pipeline stage with structured fields
func (l *Logger) LogStage(stage string, duration time.Duration, count int, err error) {
	event := l.zlog.Debug().
		Str("component", "pipeline").
		Str("stage", stage).
		Dur("duration_ms", duration).
		Int("count", count)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "pipeline").
			Str("stage", stage).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("Pipeline stage completed")
}

// LogRunStart logs the start of a pipeline run
func (l *Logger) LogRunStart(roots int) {
	l.zlog.Info().
		Str("event", "run_start").
		Int("roots", roots).
		Msg("Pipeline run starting")
}

// LogRunComplete logs a finished pipeline run
func (l *Logger) LogRunComplete(duration time.Duration, nodes, items, issues int) {
	l.zlog.Info().
		Str("event", "run_complete").
		Dur("duration_ms", duration).
		Int("nodes", nodes).
		Int("items", items).
		Int("issues", issues).
		Msg("Pipeline run completed")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
