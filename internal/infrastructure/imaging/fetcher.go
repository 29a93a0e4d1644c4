// Package imaging provides the image download and perceptual-hash
// collaborators consumed by the matching cascade.
package imaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/arbiscout/backend/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxImageBytes  = 10 << 20 // 10 MiB
	maxTries       = 3
)

// Fetcher downloads images over HTTP with bounded exponential-backoff
// retry. Only idempotent GET failures are retried: network errors, 429,
// and 5xx responses. Other status codes fail permanently.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the default per-request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch downloads the image at url. The returned bytes are scoped to the
// caller's comparison; nothing is written to disk.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrImageFetch, err))
		}
		req.Header.Set("User-Agent", "arbiscout/1.0")

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d", domain.ErrImageFetch, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("%w: status %d", domain.ErrImageFetch, resp.StatusCode))
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
		}
		return data, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxTries),
	)
}
