package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/dsn-status-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/dsn-status-service/internal/adapter/kafka"
	"github.com/couchcryptid/dsn-status-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func newServeCmd(opts options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest snapshot over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.close()
			logger := a.logger

			var loaders []pipeline.Loader
			if a.cfg.KafkaEnabled {
				writer := kafkaadapter.NewWriter(a.cfg, a.metrics, logger)
				defer func() {
					if err := writer.Close(); err != nil {
						logger.Error("kafka writer close error", "error", err)
					}
				}()
				loaders = append(loaders, writer)
			}
			p := a.pipeline(loaders...)

			snapshots, err := httpadapter.NewSnapshotHandler(p, a.cfg.SnapshotTTL, a.cfg.RefreshRateLimit, clockwork.NewRealClock(), a.metrics, logger)
			if err != nil {
				return err
			}
			srv := httpadapter.NewServer(a.cfg.HTTPAddr, p, snapshots, a.cfg.ImagesDir, logger)

			serveErr := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
			}()

			// Readiness flips once the first snapshot lands; until then /api/dsn
			// refreshes on demand.
			go func() {
				if err := snapshots.Warm(ctx); err != nil {
					logger.Warn("initial snapshot failed", "error", err)
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-serveErr:
				return err
			}
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
			logger.Info("shutdown complete")
			return nil
		},
	}
}
