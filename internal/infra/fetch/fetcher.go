// Package fetch performs single GET attempts against the polled endpoint.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pollready/pollready/internal/polling/metrics"
)

// ErrInvalidRequest marks attempts that could not be dispatched at all,
// e.g. an unparsable URL. These are terminal and never retried.
var ErrInvalidRequest = errors.New("invalid request")

// Outcome is the raw transport result of one attempt. Either StatusCode
// and Body are set (an HTTP response was obtained) or Err is set (the
// request was dispatched but no response arrived).
type Outcome struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Fetcher issues one GET per Do call over a shared http.Client.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a tuned transport.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Do issues exactly one GET against url. If ctx is cancelled before the
// outcome resolves the attempt is abandoned: Do returns (nil, ctx.Err())
// and no outcome is delivered. Network-level failures after dispatch are
// reported inside the Outcome so the caller can classify them.
func (f *Fetcher) Do(ctx context.Context, url string) (*Outcome, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.RequestLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return &Outcome{Err: fmt.Errorf("get %s: %w", url, err)}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.RequestLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return &Outcome{Err: fmt.Errorf("read response: %w", err)}, nil
	}

	metrics.RequestLatency.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Observe(time.Since(start).Seconds())

	return &Outcome{StatusCode: resp.StatusCode, Body: body}, nil
}
