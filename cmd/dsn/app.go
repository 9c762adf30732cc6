package main

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/dsn-status-service/internal/adapter/nasa"
	"github.com/couchcryptid/dsn-status-service/internal/config"
	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/couchcryptid/dsn-status-service/internal/observability"
	"github.com/couchcryptid/dsn-status-service/internal/pipeline"
)

// app is the wiring shared by the online commands.
type app struct {
	cfg             *config.Config
	logger          *slog.Logger
	metrics         *observability.Metrics
	shutdownTracing func(context.Context) error
}

// newApp loads configuration first so a missing BASE_URL fails before any
// network access.
func newApp(ctx context.Context, opts options) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg)
	shutdown, err := observability.InitTracing(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:             cfg,
		logger:          logger,
		metrics:         opts.newMetrics(),
		shutdownTracing: shutdown,
	}, nil
}

func (a *app) pipeline(loaders ...pipeline.Loader) *pipeline.Pipeline {
	source := nasa.NewClient(a.cfg.ConfigFeedURL, a.cfg.StatusFeedURL, a.metrics, a.logger)
	transformer := pipeline.NewTransformer(a.cfg.BaseURL, policyFromConfig(a.cfg))
	return pipeline.New(source, transformer, a.logger, a.metrics, loaders...)
}

func (a *app) close() {
	observability.ShutdownTracing(context.Background(), a.shutdownTracing, a.logger)
}

func policyFromConfig(cfg *config.Config) domain.Policy {
	return domain.Policy{
		ExcludeZeroPowerUplinks: cfg.ExcludeZeroPowerUplinks,
		DedupeSignals:           cfg.DedupeSignals,
	}
}
