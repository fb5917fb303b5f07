package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/observability"
)

// Fetcher wraps upstream HTTP access with the shared timeout and fetch
// instrumentation. Failures wrap domain.ErrUpstreamFetch; retries are the
// scheduler's concern, never the core's.
type Fetcher struct {
	client  *http.Client
	metrics *observability.Metrics
	name    string
}

// NewFetcher builds a Fetcher for one named provider.
func NewFetcher(name string, timeout time.Duration, metrics *observability.Metrics) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
		name:    name,
	}
}

// Get performs a GET and returns the response body. The caller closes it.
func (f *Fetcher) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamFetch, f.name, err)
	}

	clock := domain.Clock()
	start := clock.Now()
	resp, err := f.client.Do(req)
	if f.metrics != nil {
		f.metrics.FetchDuration.WithLabelValues(f.name).Observe(clock.Since(start).Seconds())
	}
	if err != nil {
		f.countError()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamFetch, f.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		f.countError()
		return nil, fmt.Errorf("%w: %s: unexpected status %d", domain.ErrUpstreamFetch, f.name, resp.StatusCode)
	}
	return resp.Body, nil
}

// GetJSON performs a GET and decodes the JSON response into out.
func (f *Fetcher) GetJSON(ctx context.Context, url string, out any) error {
	body, err := f.Get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		f.countError()
		return fmt.Errorf("%w: %s: decode response: %v", domain.ErrUpstreamFetch, f.name, err)
	}
	return nil
}

func (f *Fetcher) countError() {
	if f.metrics != nil {
		f.metrics.FetchErrors.WithLabelValues(f.name).Inc()
	}
}
