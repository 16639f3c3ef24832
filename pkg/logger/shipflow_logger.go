// Package logger provides the structured logger shared by all services.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config for the logger.
type Config struct {
	Level   string // debug, info, warn, error
	Output  io.Writer
	Service string
	Pretty  bool // console writer for local development
}

// Logger wraps zerolog with the small surface the services use.
type Logger struct {
	zl zerolog.Logger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init initializes the default logger. Safe to call once at bootstrap.
func Init(cfg Config) {
	once.Do(func() {
		defaultLogger = New(cfg)
	})
}

// Default returns the default logger, initializing it lazily.
func Default() *Logger {
	if defaultLogger == nil {
		Init(Config{Level: "info", Service: "shipflow"})
	}
	return defaultLogger
}

// New creates a logger instance.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	service := cfg.Service
	if service == "" {
		service = "shipflow"
	}
	zl := zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
	return &Logger{zl: zl}
}

// WithField returns a logger with an additional field.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

// WithError adds error information.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}

// WithDuration adds a duration in milliseconds.
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return &Logger{zl: l.zl.With().Float64("duration_ms", float64(d.Microseconds())/1000.0).Logger()}
}

func (l *Logger) Debug(msg string, args ...any) { l.zl.Debug().Msgf(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.zl.Info().Msgf(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.zl.Warn().Msgf(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.zl.Error().Msgf(msg, args...) }
func (l *Logger) Fatal(msg string, args ...any) { l.zl.Fatal().Msgf(msg, args...) }

// Package-level functions using the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
func Fatal(msg string, args ...any) { Default().Fatal(msg, args...) }

func WithField(key string, value any) *Logger  { return Default().WithField(key, value) }
func WithFields(fields map[string]any) *Logger { return Default().WithFields(fields) }
func WithError(err error) *Logger              { return Default().WithError(err) }
