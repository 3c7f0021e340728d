// Package logging builds the structured run logger. Console output for
// humans goes through package ui; this logger carries machine-readable
// diagnostics to stderr or a file.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger at the given level writing to file, or to
// stderr when file is empty. Every entry carries the run ID.
func New(level, file, runID string) (*zap.Logger, error) {
	var output zapcore.WriteSyncer
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", file, err)
		}
		output = zapcore.AddSync(f)
	} else {
		output = zapcore.Lock(zapcore.AddSync(os.Stderr))
	}

	return build(output, ParseLevel(level), runID), nil
}

// NewWriter builds a logger over an arbitrary writer.
func NewWriter(w io.Writer, level, runID string) *zap.Logger {
	return build(zapcore.AddSync(w), ParseLevel(level), runID)
}

func build(output zapcore.WriteSyncer, level zapcore.Level, runID string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		output,
		level,
	)

	return zap.New(core).With(zap.String("run_id", runID))
}

// NewRunID returns a fresh identifier for correlating one run's log lines.
func NewRunID() string {
	return uuid.NewString()
}

// ParseLevel converts a string log level to a zapcore.Level.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.WarnLevel
	}
}
