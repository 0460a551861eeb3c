// Package applog sets up the application's append-only event log.
//
// The log records startup, config load/save, copy/delete outcomes, and errors.
// It is informational only; nothing reads it back.
package applog

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDirPermissions is the permission mode for the created logs directory.
const DefaultDirPermissions = 0o750

// Open creates (or appends to) the log file at path and returns a logger
// writing to it, plus a close function to flush and release the file.
func Open(path string) (*zap.SugaredLogger, func(), error) {
	err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304 - path is controlled by caller
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(file),
		zapcore.InfoLevel,
	)

	logger := zap.New(core)

	closeFunc := func() {
		_ = logger.Sync()
		_ = file.Close()
	}

	return logger.Sugar(), closeFunc, nil
}

// Nop returns a logger that discards everything. Used by tests and as a
// fallback when the log file cannot be opened.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
