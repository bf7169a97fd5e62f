package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Logger is a thin context-aware wrapper around a zap logger.
type Logger struct {
	z *zap.Logger
}

// Init replaces the global logger. level is a zap level string
// ("debug", "info", "warn", "error"); asJSON switches between the
// production JSON encoder and the console encoder.
func Init(level string, asJSON bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger.Init: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if !asJSON {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("logger.Init: %w", err)
	}

	mu.Lock()
	global = z
	mu.Unlock()

	return nil
}

// SetNopLogger silences the global logger. Used by tests.
func SetNopLogger() {
	mu.Lock()
	global = zap.NewNop()
	mu.Unlock()
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func With(fields ...Field) Logger {
	return Logger{z: L().With(fields...)}
}

func (l Logger) With(fields ...Field) Logger {
	return Logger{z: l.z.With(fields...)}
}

func (l Logger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, fields...)
}

func (l Logger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, fields...)
}

func (l Logger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, fields...)
}

func (l Logger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	Logger{z: L()}.Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	Logger{z: L()}.Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	Logger{z: L()}.Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	Logger{z: L()}.Error(ctx, msg, fields...)
}
