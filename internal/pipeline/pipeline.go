package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/couchcryptid/dsn-status-service/internal/observability"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// FeedSource fetches and parses the two upstream feeds.
type FeedSource interface {
	FetchConfig(ctx context.Context) (domain.ConfigFeed, error)
	FetchStatus(ctx context.Context) (domain.StatusFeed, error)
}

// Transformer converts the parsed feeds into a snapshot.
type Transformer interface {
	Transform(ctx context.Context, feeds Feeds) (domain.Output, domain.Stats)
}

// Loader delivers a finished snapshot somewhere.
type Loader interface {
	Load(ctx context.Context, snapshot domain.Snapshot) error
}

// Committer is implemented by loaders that stage output in Load and only
// make it visible in Commit, once every loader has succeeded. Discard drops
// staged output after a failed run.
type Committer interface {
	Commit(ctx context.Context) error
	Discard()
}

// Feeds is the pair of parsed documents a run works from.
type Feeds struct {
	Config domain.ConfigFeed
	Status domain.StatusFeed
}

// Pipeline orchestrates the fetch-transform-load run.
type Pipeline struct {
	source      FeedSource
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
// Loaders run in order after a successful transform; committers are
// committed only after all of them succeed.
func New(s FeedSource, t Transformer, logger *slog.Logger, metrics *observability.Metrics, loaders ...Loader) *Pipeline {
	return &Pipeline{
		source:      s,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the pipeline has produced a snapshot,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot has been produced yet")
	}
	return nil
}

// Run fetches both feeds concurrently, transforms them and hands the snapshot
// to every loader. Any failure aborts the run and no partial snapshot is
// returned.
func (p *Pipeline) Run(ctx context.Context) (domain.Snapshot, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	ctx, span := otel.Tracer(observability.TracerName).Start(ctx, "pipeline.snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", runID))

	start := time.Now()
	snapshot, err := p.run(ctx, runID, logger)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("snapshot run failed", "error", err, "duration", time.Since(start))
		return domain.Snapshot{}, err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.SignalsExtracted.Set(float64(snapshot.Stats.Signals))
	p.metrics.Crafts.Set(float64(snapshot.Stats.Crafts))
	p.metrics.LastSuccess.SetToCurrentTime()
	p.ready.Store(true)

	logger.Info("snapshot run complete",
		"spacecraft", snapshot.Stats.Spacecraft,
		"signals", snapshot.Stats.Signals,
		"crafts", snapshot.Stats.Crafts,
		"updated_at", snapshot.Output.UpdatedAt,
		"duration", time.Since(start),
	)
	return snapshot, nil
}

func (p *Pipeline) run(ctx context.Context, runID string, logger *slog.Logger) (domain.Snapshot, error) {
	feeds, err := p.fetch(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	logger.Debug("feeds fetched",
		"spacecraft_entries", len(feeds.Config.Spacecraft),
		"stations", len(feeds.Status.Stations),
	)

	out, stats := p.transformer.Transform(ctx, feeds)
	snapshot := domain.Snapshot{RunID: runID, Output: out, Stats: stats}

	for _, l := range p.loaders {
		if err := l.Load(ctx, snapshot); err != nil {
			p.discard()
			return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
		}
	}
	for _, l := range p.loaders {
		c, ok := l.(Committer)
		if !ok {
			continue
		}
		if err := c.Commit(ctx); err != nil {
			p.discard()
			return domain.Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
		}
	}
	return snapshot, nil
}

func (p *Pipeline) discard() {
	for _, l := range p.loaders {
		if c, ok := l.(Committer); ok {
			c.Discard()
		}
	}
}

// fetch issues both requests at once and waits for both. The first failure
// cancels the other request.
func (p *Pipeline) fetch(ctx context.Context) (Feeds, error) {
	var feeds Feeds
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg, err := p.source.FetchConfig(gctx)
		if err != nil {
			return err
		}
		feeds.Config = cfg
		return nil
	})
	g.Go(func() error {
		status, err := p.source.FetchStatus(gctx)
		if err != nil {
			return err
		}
		feeds.Status = status
		return nil
	})
	if err := g.Wait(); err != nil {
		return Feeds{}, err
	}
	return feeds, nil
}
