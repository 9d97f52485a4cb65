// Package log builds the application logger. The terminal belongs to the UI,
// so log output goes to a file.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a logger appending JSON lines to filename.
// An empty filename returns a logger that discards everything.
func NewLogger(filename string, verbose bool) (*zap.Logger, error) {
	if filename == "" {
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{filename}
	config.ErrorOutputPaths = []string{filename}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", filename, err)
	}
	return logger, nil
}
