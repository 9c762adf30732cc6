package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/couchcryptid/dsn-status-service/internal/observability"
	lru "github.com/hashicorp/golang-lru"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// SnapshotSource produces a fresh snapshot on demand.
type SnapshotSource interface {
	Run(ctx context.Context) (domain.Snapshot, error)
}

type cachedSnapshot struct {
	body      []byte
	fetchedAt time.Time
}

// SnapshotHandler serves the latest snapshot as JSON. Encoded snapshots are
// reused for the TTL. Refreshes are serialized and rate limited.
type SnapshotHandler struct {
	source  SnapshotSource
	cache   *lru.Cache
	limiter *rate.Limiter
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger

	refreshMu sync.Mutex
}

// NewSnapshotHandler creates a handler that refreshes at most refreshPerSecond
// times per second.
func NewSnapshotHandler(source SnapshotSource, ttl time.Duration, refreshPerSecond float64, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) (*SnapshotHandler, error) {
	// One entry: the handler serves a single snapshot kind under APIPath.
	cache, err := lru.New(1)
	if err != nil {
		return nil, fmt.Errorf("create snapshot cache: %w", err)
	}
	return &SnapshotHandler{
		source:  source,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(refreshPerSecond), 1),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}, nil
}

func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if entry, ok := h.lookup(); ok && h.fresh(entry) {
		h.metrics.SnapshotCache.WithLabelValues("hit").Inc()
		writeBody(w, http.StatusOK, entry.body)
		return
	}
	h.metrics.SnapshotCache.WithLabelValues("miss").Inc()

	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	// Another request may have refreshed while this one waited.
	stale, hasStale := h.lookup()
	if hasStale && h.fresh(stale) {
		writeBody(w, http.StatusOK, stale.body)
		return
	}

	if !h.limiter.Allow() {
		h.metrics.RefreshThrottled.Inc()
		if hasStale {
			writeBody(w, http.StatusOK, stale.body)
			return
		}
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "refresh rate limit exceeded"})
		return
	}

	body, err := h.refresh(r.Context())
	if err != nil {
		h.logger.Error("error fetching DSN data", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "error fetching DSN data"})
		return
	}
	writeBody(w, http.StatusOK, body)
}

// Warm fetches the first snapshot ahead of traffic. It does not consume a
// refresh token.
func (h *SnapshotHandler) Warm(ctx context.Context) error {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	_, err := h.refresh(ctx)
	return err
}

func (h *SnapshotHandler) refresh(ctx context.Context) ([]byte, error) {
	snapshot, err := h.source.Run(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(snapshot.Output)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	h.cache.Add(APIPath, cachedSnapshot{body: body, fetchedAt: h.clock.Now()})
	return body, nil
}

func (h *SnapshotHandler) lookup() (cachedSnapshot, bool) {
	v, ok := h.cache.Get(APIPath)
	if !ok {
		return cachedSnapshot{}, false
	}
	entry, ok := v.(cachedSnapshot)
	return entry, ok
}

func (h *SnapshotHandler) fresh(entry cachedSnapshot) bool {
	return h.clock.Since(entry.fetchedAt) < h.ttl
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck // client went away
}
