package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/giygas/cvdrisk-api/catalog"
	"github.com/giygas/cvdrisk-api/config"
	"github.com/giygas/cvdrisk-api/data"
	"github.com/giygas/cvdrisk-api/handlers"
	"github.com/giygas/cvdrisk-api/health"
	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/scheduler"
	"github.com/giygas/cvdrisk-api/server"
	"github.com/giygas/cvdrisk-api/validation"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.InitLoggerWithRetentionAndSize(cfg.LogDir, cfg.Env, cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer func() {
		if err := logging.Close(); err != nil {
			fmt.Println("Failed to close log file:", err)
		}
	}()

	store := data.NewCatalogContainer()
	store.SetServerStartTime(time.Now())

	sched := scheduler.NewScheduler(store, catalog.NewFileParser(cfg.CatalogPath), cfg.CatalogReloadAt)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start catalog scheduler: %w", err)
	}
	defer sched.Stop()

	reloadTimes, err := config.ParseReloadTimes(cfg.CatalogReloadAt)
	if err != nil {
		return err
	}

	handler := handlers.NewHTTPHandler(store, validation.NewInputValidator(), health.NewHealthChecker(store, reloadTimes))
	srv := server.NewServer(cfg, handler)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logging.Error("Server failed to start", "error", err)
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
