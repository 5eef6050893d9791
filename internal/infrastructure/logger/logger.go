// Package logger builds the zap logger shared by every component.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level and destinations.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Console receives a copy of every entry when set.
	Console io.Writer
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q", level)
}

// New returns a logger writing to the rotated file and, optionally, the console.
// The returned close function flushes and releases the file.
func New(cfg Config) (*zap.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	var writers []zapcore.WriteSyncer
	var rotator *lumberjack.Logger
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0750); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    positive(cfg.MaxSizeMB, 10),
			MaxBackups: positive(cfg.MaxBackups, 3),
			MaxAge:     positive(cfg.MaxAgeDays, 28),
			Compress:   true,
		}
		writers = append(writers, zapcore.AddSync(rotator))
	}
	if cfg.Console != nil {
		writers = append(writers, zapcore.AddSync(cfg.Console))
	}
	if len(writers) == 0 {
		return zap.NewNop(), func() error { return nil }, nil
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(writers...),
		level,
	)
	z := zap.New(core).Named("headlines")

	closeFn := func() error {
		_ = z.Sync()
		if rotator != nil {
			return rotator.Close()
		}
		return nil
	}
	return z, closeFn, nil
}

func positive(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
