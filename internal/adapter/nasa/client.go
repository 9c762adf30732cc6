package nasa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/couchcryptid/dsn-status-service/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrUnexpectedStatus is returned when a feed answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status")

const userAgent = "dsn-status-service/1.0"

// Client fetches and parses the DSN Now feeds. It implements pipeline.FeedSource.
type Client struct {
	httpClient *http.Client
	configURL  string
	statusURL  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client. Requests use the default transport with
// no client-side timeout.
func NewClient(configURL, statusURL string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		configURL:  configURL,
		statusURL:  statusURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchConfig downloads and parses config.xml.
func (c *Client) FetchConfig(ctx context.Context) (domain.ConfigFeed, error) {
	body, err := c.fetch(ctx, observability.FeedConfig, c.configURL)
	if err != nil {
		return domain.ConfigFeed{}, err
	}
	return domain.ParseConfigFeed(body)
}

// FetchStatus downloads and parses dsn.xml.
func (c *Client) FetchStatus(ctx context.Context) (domain.StatusFeed, error) {
	body, err := c.fetch(ctx, observability.FeedStatus, c.statusURL)
	if err != nil {
		return domain.StatusFeed{}, err
	}
	return domain.ParseStatusFeed(body)
}

func (c *Client) fetch(ctx context.Context, feed, url string) ([]byte, error) {
	ctx, span := otel.Tracer(observability.TracerName).Start(ctx, "fetch "+feed)
	defer span.End()
	span.SetAttributes(attribute.String("http.url", url))

	start := time.Now()
	body, err := c.doRequest(ctx, url)
	c.metrics.FetchDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(feed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch %s feed: %w", feed, err)
	}

	c.logger.Debug("feed fetched", "feed", feed, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode, excerpt)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
