package logging

import (
	"log/slog"
	"os"
	"sync"

	"github.com/giygas/cvdrisk-api/config"
)

type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

var (
	DefaultLoggingService *LoggingService
	serviceMu             sync.Mutex

	fallbackLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
)

// InitLogger initializes the global logger for development defaults
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{
		Dir:            logDir,
		Env:            config.EnvDevelopment,
		RetentionWeeks: 4,
	})
}

// InitLoggerWithRetentionAndSize initializes the global logger from the
// service configuration values
func InitLoggerWithRetentionAndSize(logDir string, env config.Environment, level string, retentionWeeks int, maxFileSize int64) {
	InitLoggerWithOptions(Options{
		Dir:            logDir,
		Env:            env,
		Level:          level,
		RetentionWeeks: retentionWeeks,
		MaxFileSize:    maxFileSize,
	})
}

// InitLoggerWithOptions replaces the global logger, closing the previous
// log file if any
func InitLoggerWithOptions(opts Options) {
	logger, rotating := NewLogger(opts)

	serviceMu.Lock()
	prev := DefaultLoggingService
	DefaultLoggingService = &LoggingService{Logger: logger, rotating: rotating}
	serviceMu.Unlock()

	slog.SetDefault(logger)
	if prev != nil && prev.rotating != nil {
		_ = prev.rotating.Close()
	}
}

// Close flushes and closes the global log file
func Close() error {
	serviceMu.Lock()
	svc := DefaultLoggingService
	DefaultLoggingService = nil
	serviceMu.Unlock()

	if svc == nil || svc.rotating == nil {
		return nil
	}
	return svc.rotating.Close()
}

func current() *slog.Logger {
	serviceMu.Lock()
	defer serviceMu.Unlock()
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return fallbackLogger
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}
