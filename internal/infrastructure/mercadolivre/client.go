// Package mercadolivre implements the secondary-marketplace search client.
package mercadolivre

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/arbiscout/backend/internal/domain"
)

// searchItem mirrors one result of the public search API.
type searchItem struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
	Permalink string  `json:"permalink"`
}

// searchResponse mirrors the search API envelope.
type searchResponse struct {
	Results []searchItem `json:"results"`
}

// Client handles communication with the Mercado Livre search API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	siteID      string
	pageSize    int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a search client. The public API tolerates roughly one
// request per second sustained; the limiter allows short bursts.
func NewClient(baseURL, siteID string) *Client {
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	if siteID == "" {
		siteID = "MLB"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     baseURL,
		siteID:      siteID,
		pageSize:    20,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the sleep before the next retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// Search queries listings for the given text and maps them to match
// candidates. Transient failures (network, 429, 5xx) are retried up to
// three times.
func (c *Client) Search(ctx context.Context, query string) ([]domain.MatchCandidate, error) {
	endpoint := fmt.Sprintf("%s/sites/%s/search", c.baseURL, c.siteID)
	params := url.Values{}
	params.Add("q", query)
	params.Add("limit", fmt.Sprintf("%d", c.pageSize))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retryable, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[ML] request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			if !retryable {
				return nil, err
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if c.debug {
			log.Printf("[ML] found %d listings for query %q", len(searchResp.Results), query)
		}
		return mapResults(searchResp.Results), nil
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrMarketplaceUnavailable, lastErr)
}

// doRequest executes one GET. The second return reports whether the
// failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "arbiscout/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrMarketplaceUnavailable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrMarketplaceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: status %d", domain.ErrMarketplaceUnavailable, resp.StatusCode)
	}

	return body, false, nil
}

// mapResults converts API items to domain match candidates, skipping
// entries without a usable price.
func mapResults(items []searchItem) []domain.MatchCandidate {
	candidates := make([]domain.MatchCandidate, 0, len(items))
	for _, item := range items {
		if item.Price <= 0 || item.Title == "" {
			continue
		}
		mc := domain.MatchCandidate{
			Title: item.Title,
			Price: item.Price,
			URL:   item.Permalink,
		}
		if item.Thumbnail != "" {
			mc.ImageURLs = []string{item.Thumbnail}
		}
		candidates = append(candidates, mc)
	}
	return candidates
}
