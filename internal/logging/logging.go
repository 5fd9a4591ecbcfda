// Package logging builds the zap loggers shared by every reelmate component.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names so log lines stay greppable across components.
const (
	FieldPath       = "path"
	FieldRow        = "row"
	FieldCount      = "count"
	FieldTitle      = "title"
	FieldGenre      = "genre"
	FieldIdentifier = "identifier"
	FieldTool       = "tool"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldModel      = "model"
	FieldProvider   = "provider"
)

// New returns a sugared logger writing to stderr at the given level.
// JSON output uses zap's production encoder; otherwise a compact console encoder.
func New(level string, json bool) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if json {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core).Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return Nop()
	}
	return l
}

// ParseLevel converts debug|info|warn|error (case-insensitive) to a zap level.
// An empty string means warn.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "", "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.WarnLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}
