// Package logger wraps zap behind the small interface the rest of the
// module logs through.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging interface used across the module.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field is a key-value pair attached to a log entry.
type Field = zap.Field

// Config selects the minimum level and where entries go.
type Config struct {
	Level       string   `yaml:"level"`
	OutputPaths []string `yaml:"output_paths"`
}

const DefaultLevel = "warn"

var DefaultOutputPaths = []string{"stderr"}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = DefaultOutputPaths
	}
}

type zapLogger struct {
	logger *zap.Logger
}

// New builds a JSON logger from cfg.
func New(cfg Config) (Logger, error) {
	cfg.SetDefaults()

	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zapCfg.OutputPaths = cfg.OutputPaths
	zapCfg.Sampling = nil

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &zapLogger{logger: z}, nil
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(z *zap.Logger) Logger {
	return &zapLogger{logger: z}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.logger.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.logger.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.logger.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.logger.Error(msg, fields...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{logger: l.logger.With(fields...)}
}

func (l *zapLogger) Sync() error { return l.logger.Sync() }

func String(key, val string) Field { return zap.String(key, val) }
func Int(key string, val int) Field { return zap.Int(key, val) }
func Error(err error) Field         { return zap.Error(err) }
