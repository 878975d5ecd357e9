package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/bazi/internal/config"
	httpAdapter "github.com/aretw0/bazi/pkg/adapters/http"
	"github.com/aretw0/bazi/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RunServe starts the HTTP server and blocks until ctx is cancelled,
// then drains outstanding requests within the configured shutdown timeout.
func RunServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	streams := httpAdapter.NewStreamManager()

	engine, cleanup, err := NewEngine(ctx, cfg, logger, metrics.Hooks(), streams.Hooks())
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := httpAdapter.NewHandler(engine,
		httpAdapter.WithMetrics(metrics, reg),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Starting BaZi Server", "addr", srv.Addr, "history", cfg.History.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
			if cerr := srv.Close(); cerr != nil && !errors.Is(cerr, http.ErrServerClosed) {
				return fmt.Errorf("error killing server: %w", cerr)
			}
		}
		logger.Info("BaZi Server stopped gracefully")
		return nil
	}
}
