// Package remote fetches storefront pages and theme bundles over HTTP.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/bassista/go_preview/internal/logger"
)

const (
	ContentTypeCSS        = "text/css"
	ContentTypeJavaScript = "application/javascript"
	ContentTypeJSON       = "application/json"
)

// Asset is a fetched remote payload and the content type it is served with.
type Asset struct {
	Body        []byte
	ContentType string
}

// Fetcher performs a single outbound GET. Implementations do not retry.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Asset, error)
}

// HTTPFetcher is the net/http backed Fetcher.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher returns a fetcher whose requests are bounded by timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// NewHTTPFetcherWithClient is used by tests to inject a client.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch GETs rawURL. Transport errors and non-2xx responses are network errors.
// The content type comes from the URL extension, not from response headers.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (Asset, error) {
	op := "fetch " + rawURL

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Asset{}, apperror.Network(op, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	started := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return Asset{}, apperror.Network(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Asset{}, apperror.Network(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Asset{}, apperror.Network(op, fmt.Errorf("read body: %w", err))
	}

	logger.WithComponent("fetcher").Debugf("fetched %s (%d bytes) in %v", rawURL, len(body), time.Since(started))
	return Asset{Body: body, ContentType: ContentTypeFor(rawURL)}, nil
}

// ContentTypeFor derives the served content type from the URL path extension:
// stylesheets and JSON are recognised, everything else is treated as script.
func ContentTypeFor(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".css":
		return ContentTypeCSS
	case ".json":
		return ContentTypeJSON
	default:
		return ContentTypeJavaScript
	}
}
