package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = &Logger{z: zap.NewNop()}

type Logger struct {
	z *zap.Logger
}

// Init replaces the default no-op logger with a configured zap core.
func Init(level string, asJSON bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger.Init: parse level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if !asJSON {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	cfg.DisableStacktrace = true

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("logger.Init: build: %w", err)
	}

	global = &Logger{z: z}
	return nil
}

func L() *Logger { return global }

func With(fields ...Field) *Logger {
	return &Logger{z: global.z.With(fields...)}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{z: l.z.With(fields...)}
}

func (l *Logger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, fields...)
}

func (l *Logger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, fields...)
}

func (l *Logger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, fields...)
}

func (l *Logger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...Field) { global.Debug(ctx, msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { global.Info(ctx, msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { global.Warn(ctx, msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { global.Error(ctx, msg, fields...) }

func Sync() error { return global.z.Sync() }
