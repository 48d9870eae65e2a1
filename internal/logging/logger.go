// Package logging builds the zap logger used for diagnostic output.
// User-facing messages are printed by the cli package; the logger only
// carries debug detail such as subprocess invocations and file moves.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LevelInfo sets the log level to info
	LevelInfo = "info"

	// LevelDebug sets the log level to debug
	LevelDebug = "debug"

	// LevelNone disables logging
	LevelNone = "none"
)

// GetLogger returns a console zap logger writing to stderr at the given level.
func GetLogger(level string) (*zap.Logger, error) {
	if level == LevelNone || level == "" {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// LevelFor picks the effective level: verbose forces debug, otherwise the
// configured level is used.
func LevelFor(configured string, verbose bool) string {
	if verbose {
		return LevelDebug
	}
	if configured == "" {
		return LevelInfo
	}
	return configured
}
