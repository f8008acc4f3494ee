// Package logging builds the logr.Logger used across the service, backed by
// zap. Components take their logger from the request context and never
// construct their own.
package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted by NewLogger
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ValidLevels returns the accepted log level names.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}

// ParseLevel maps a level name to its zap level. logr's V(1) maps to debug.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case LevelDebug:
		return zapcore.DebugLevel, nil
	case LevelInfo, "":
		return zapcore.InfoLevel, nil
	case LevelWarn:
		return zapcore.WarnLevel, nil
	case LevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger creates a JSON logger at the given level, or a console logger
// when development is set.
func NewLogger(level string, development bool) (logr.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(zapLog), nil
}

// NewTestLogger returns a development logger at debug level for tests.
func NewTestLogger() logr.Logger {
	return zapr.NewLogger(zap.Must(zap.NewDevelopment()))
}
