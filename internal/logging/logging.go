// Package logging builds the zap logger shared by the CLI and the TUI.
//
// Logs always go to a file. The terminal belongs to the TUI, so nothing is
// ever written to stdout or stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the fixed path used by --debug (easy to find).
const DebugLogPath = "uniflow-debug.log"

// Options configures New.
type Options struct {
	Level       string // "debug", "info", "warn" or "error"
	File        string // empty disables logging
	Development bool   // console encoding with caller info instead of JSON
}

// New returns a logger writing to opts.File, or a no-op logger when no file
// is configured.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		return zap.NewNop(), nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{opts.File}
	cfg.ErrorOutputPaths = []string{opts.File}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// Debug returns the logger used by --debug: every level, JSON, DebugLogPath.
// The file is truncated so each session starts clean.
func Debug() (*zap.Logger, error) {
	if err := os.Truncate(DebugLogPath, 0); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("resetting debug log: %w", err)
	}
	return New(Options{Level: "debug", File: DebugLogPath})
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %q", s)
	}
}
