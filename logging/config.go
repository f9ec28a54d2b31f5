package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/giygas/cvdrisk-api/config"
)

// Options configures the console and file handlers.
type Options struct {
	Dir            string // empty logs to the console only
	Env            config.Environment
	Level          string // LOG_LEVEL override, empty for the environment default
	Verbose        bool   // lets the test environment log at info
	RetentionWeeks int
	MaxFileSize    int64
}

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetConsoleLogLevel returns the console level for env. An explicit level
// wins, except in tests where the console stays quiet unless verbose.
func GetConsoleLogLevel(env config.Environment, level string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}
	if level != "" {
		return parseLogLevel(level)
	}
	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the file level. Files always keep debug records.
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

// NewLogger builds a logger writing text to stdout and JSON to a
// RotatingLogger under opts.Dir. The returned RotatingLogger is nil when
// logging to the console only.
func NewLogger(opts Options) (*slog.Logger, *RotatingLogger) {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose),
	})
	if opts.Dir == "" {
		return slog.New(consoleHandler), nil
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory", "dir", opts.Dir, "error", err)
		return logger, nil
	}

	if opts.RetentionWeeks <= 0 {
		opts.RetentionWeeks = 4
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = defaultMaxFileSize
	}

	rotating := NewRotatingLoggerWithSizeLimit(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
	rotating.mu.Lock()
	err := rotating.doRotate(getWeekKey(time.Now()))
	rotating.mu.Unlock()
	if err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to initialize rotating logger", "error", err)
		return logger, nil
	}
	rotating.startCleanup()

	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{
		Level: GetFileLogLevel(),
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), rotating
}

// multiHandler fans records out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: out}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: out}
}
