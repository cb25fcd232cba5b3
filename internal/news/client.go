// Package news scrapes the public notice board of the innovation valley and
// turns it into NewsItems. Fetching is best effort: Feed never fails a page.
package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"innovalley/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultUserAgent is sent with every fetch; the notice board rejects
// requests without a browser-like identity.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 10 * time.Second

const maxBodyBytes = 5 << 20

// StatusError reports a non-2xx answer from the news source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("news source %s returned status %d", e.URL, e.StatusCode)
}

// Client downloads the raw HTML of the news listing page.
type Client struct {
	url       string
	userAgent string
	http      *http.Client
}

// NewClient returns a Client for url. Zero values select DefaultUserAgent and
// DefaultTimeout.
func NewClient(url, userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:       url,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Fetch issues exactly one GET for the listing page and returns its body.
func (c *Client) Fetch(ctx context.Context) (body string, err error) {
	ctx, span := observability.StartClientSpan(ctx, "news.fetch",
		attribute.String("http.url", c.url),
	)
	start := time.Now()
	defer func() {
		observability.NewsFetchLatency.Observe(time.Since(start).Seconds())
		observability.EndSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build news request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch news: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: c.url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read news body: %w", err)
	}
	return string(raw), nil
}
