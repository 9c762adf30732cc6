package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/dsn-status-service/internal/adapter/http"
	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/couchcryptid/dsn-status-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type fakeSource struct {
	err   error
	calls atomic.Int32
}

func (f *fakeSource) Run(_ context.Context) (domain.Snapshot, error) {
	n := f.calls.Add(1)
	if f.err != nil {
		return domain.Snapshot{}, f.err
	}
	return domain.Snapshot{
		RunID: fmt.Sprintf("run-%d", n),
		Output: domain.Output{
			BaseURL:   "https://dsn.example.com",
			Stations:  []domain.Station{},
			UpdatedAt: fmt.Sprintf("2024-01-15T08:30:0%dZ", n),
		},
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(t *testing.T, source httpadapter.SnapshotSource, perSecond float64, clock clockwork.Clock, metrics *observability.Metrics) *httpadapter.SnapshotHandler {
	t.Helper()
	h, err := httpadapter.NewSnapshotHandler(source, time.Hour, perSecond, clock, metrics, discardLogger())
	require.NoError(t, err)
	return h
}

func newTestServer(t *testing.T, readyErr error) *httpadapter.Server {
	t.Helper()
	h := newHandler(t, &fakeSource{}, 100, clockwork.NewFakeClock(), observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, h, "", slog.Default())
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeOutput(t *testing.T, rec *httptest.ResponseRecorder) domain.Output {
	t.Helper()
	var out domain.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(t, errors.New("not ready yet")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUpAndRoot(t *testing.T) {
	srv := newTestServer(t, nil)

	up := get(t, srv, "/up")
	assert.Equal(t, http.StatusOK, up.Code)
	assert.Equal(t, "ok", up.Body.String())

	root := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, root.Code)
	assert.Contains(t, root.Body.String(), "/api/dsn")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestImagesServedFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dsn-1.png"), []byte("png"), 0o644))

	h := newHandler(t, &fakeSource{}, 100, clockwork.NewFakeClock(), observability.NewMetricsForTesting())
	srv := httpadapter.NewServer(":0", &mockReadiness{}, h, dir, discardLogger())

	rec := get(t, srv, "/images/dsn-1.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestAPIServesSnapshotFromCacheWithinTTL(t *testing.T) {
	source := &fakeSource{}
	metrics := observability.NewMetricsForTesting()
	h := newHandler(t, source, 100, clockwork.NewFakeClock(), metrics)
	srv := httpadapter.NewServer(":0", &mockReadiness{}, h, "", discardLogger())

	first := get(t, srv, "/api/dsn")
	second := get(t, srv, "/api/dsn")

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "application/json", first.Header().Get("Content-Type"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, "https://dsn.example.com", decodeOutput(t, first).BaseURL)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SnapshotCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SnapshotCache.WithLabelValues("hit")), 0)
}

func TestAPIRefreshesAfterTTL(t *testing.T) {
	source := &fakeSource{}
	clock := clockwork.NewFakeClock()
	h := newHandler(t, source, 100, clock, observability.NewMetricsForTesting())

	first := decodeOutput(t, get(t, h, "/api/dsn"))
	clock.Advance(time.Hour + time.Second)
	second := decodeOutput(t, get(t, h, "/api/dsn"))

	assert.Equal(t, int32(2), source.calls.Load())
	assert.NotEqual(t, first.UpdatedAt, second.UpdatedAt)
}

func TestAPIServesStaleSnapshotWhenThrottled(t *testing.T) {
	source := &fakeSource{}
	clock := clockwork.NewFakeClock()
	metrics := observability.NewMetricsForTesting()
	h := newHandler(t, source, 0.0001, clock, metrics)

	first := get(t, h, "/api/dsn")
	clock.Advance(2 * time.Hour)
	second := get(t, h, "/api/dsn")

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), source.calls.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RefreshThrottled), 0)
}

func TestAPIReturns429WhenThrottledWithoutSnapshot(t *testing.T) {
	source := &fakeSource{err: errors.New("upstream down")}
	h := newHandler(t, source, 0.0001, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	assert.Equal(t, http.StatusBadGateway, get(t, h, "/api/dsn").Code)

	rec := get(t, h, "/api/dsn")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, int32(1), source.calls.Load())
}

func TestAPIReturns502OnPipelineFailure(t *testing.T) {
	h := newHandler(t, &fakeSource{err: errors.New("connection refused")}, 100, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	rec := get(t, h, "/api/dsn")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"error fetching DSN data"}`, rec.Body.String())
}

func TestWarmPrimesCache(t *testing.T) {
	source := &fakeSource{}
	h := newHandler(t, source, 0.0001, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	require.NoError(t, h.Warm(context.Background()))
	rec := get(t, h, httpadapter.APIPath)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, "2024-01-15T08:30:01Z", decodeOutput(t, rec).UpdatedAt)
}

func TestWarmReturnsSourceError(t *testing.T) {
	h := newHandler(t, &fakeSource{err: errors.New("timeout")}, 1, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	assert.EqualError(t, h.Warm(context.Background()), "timeout")
}

func TestAPICacheIgnoresRequestPath(t *testing.T) {
	source := &fakeSource{}
	h := newHandler(t, source, 100, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	first := get(t, h, httpadapter.APIPath)
	second := get(t, h, httpadapter.APIPath+"/")

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), source.calls.Load())
}
