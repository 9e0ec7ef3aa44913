// Package logger wraps go.uber.org/zap so the rest of the engine never
// imports zap directly.
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	coreerrors "github.com/edirent/helix/internal/obs/errors"
	"github.com/edirent/helix/internal/obs/util"
)

// Field holds a single key-value to be written to the log.
type Field struct {
	Key   string
	Value any
}

// Logger wraps a *zap.Logger with the engine's structured conventions.
type Logger struct {
	logger *zap.Logger
}

// Level is the minimum severity a Logger will emit.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"

	messageKey = "message"
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Options configures New.
type Options struct {
	Level       Level
	OutputPaths []string
}

// New builds a Logger. With no output paths configured it keeps zap's
// production default, stderr.
func New(opts Options) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(opts.Level.zapLevel())
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}
	cfg.EncoderConfig.MessageKey = messageKey

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger: zl}, nil
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// WithFields returns a child logger carrying the given fields on every entry.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{logger: l.logger.With(toZap(fields)...)}
}

func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, toZap(fields)...)
}

func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, toZap(fields)...)
}

func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, toZap(fields)...)
}

// Error logs err at error level, rendering its stack trace if it carries one.
func (l *Logger) Error(err error, fields ...Field) {
	zapFields := toZap(fields)
	stack := ""
	if tracer, ok := err.(coreerrors.StackTracer); ok {
		if trace := tracer.StackTrace(); trace != nil {
			stack = strings.TrimSpace(fmt.Sprintf("%+v", trace))
		}
	}

	if ce := l.logger.Check(zapcore.ErrorLevel, err.Error()); ce != nil {
		if stack != "" {
			ce.Stack = stack
		}
		ce.Write(zapFields...)
	}
}

// InfoContext logs at info level and appends the context's request id.
func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, appendRequestID(ctx, fields)...)
}

// ErrorContext logs err and appends the context's request id.
func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, appendRequestID(ctx, fields)...)
}

func appendRequestID(ctx context.Context, fields []Field) []Field {
	return append(fields, Field{Key: "request_id", Value: util.GetRequestID(ctx)})
}

func toZap(fields []Field) []zapcore.Field {
	zapFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	return zapFields
}
