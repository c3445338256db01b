// Package logging builds the logr.Logger handed to the specmodel libraries,
// backed by zap.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity mapping: logr V(n) is zap level -n, so "debug" enables V(1)
// diagnostics and V(2) iteration traces.
const maxVerbosity = 2

// New returns a logger at level ("debug", "info", "warn" or "error").
// Development selects the console encoder. The returned sync flushes
// buffered entries and should be deferred by the caller.
func New(level string, development bool) (logr.Logger, func() error, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return logr.Discard(), nil, err
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("logging: %w", err)
	}
	return zapr.NewLogger(zl), zl.Sync, nil
}

// FromZap wraps an existing zap logger.
func FromZap(zl *zap.Logger) logr.Logger {
	return zapr.NewLogger(zl)
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.Level(-maxVerbosity), nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
}
