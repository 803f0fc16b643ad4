// Package logging configures the process-wide slog logger: a text handler
// writing to the console and to a size-capped rotating file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName = "smtp-send.log"

	// Rotation policy: 5 MB per file, 3 rotated backups kept.
	maxSizeMB  = 5
	maxBackups = 3
)

// level backs the handler so the threshold can be raised or lowered after
// the configuration file has been read.
var level = new(slog.LevelVar)

// Setup initializes the default slog logger. The log directory is created
// if absent; log lines go to stdout and to a rotating file inside dir.
func Setup(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, rotating), &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

// SetLevel adjusts the logging threshold of the handler installed by Setup.
// Unknown names fall back to info.
func SetLevel(name string) {
	switch name {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}
