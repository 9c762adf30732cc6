package pipeline

import (
	"context"

	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/couchcryptid/dsn-status-service/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// SnapshotTransformer implements Transformer using the domain transform
// functions under a fixed base URL and policy.
type SnapshotTransformer struct {
	baseURL string
	policy  domain.Policy
}

// NewTransformer creates a SnapshotTransformer.
func NewTransformer(baseURL string, policy domain.Policy) *SnapshotTransformer {
	return &SnapshotTransformer{
		baseURL: baseURL,
		policy:  policy,
	}
}

func (t *SnapshotTransformer) Transform(ctx context.Context, feeds Feeds) (domain.Output, domain.Stats) {
	_, span := otel.Tracer(observability.TracerName).Start(ctx, "transform")
	defer span.End()

	out, stats := domain.Transform(t.baseURL, feeds.Config, feeds.Status, t.policy)
	span.SetAttributes(
		attribute.Int("signals", stats.Signals),
		attribute.Int("crafts", stats.Crafts),
	)
	return out, stats
}
