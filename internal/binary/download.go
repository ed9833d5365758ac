package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultUserAgent is the User-Agent header sent with requests
const DefaultUserAgent = "gonpm/1.0"

// Fetcher opens the response body for a download URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher issues a single GET per Fetch. It does not retry and sets no
// timeout of its own; redirects follow the http.Client defaults.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher backed by a default http.Client.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
	}
}

// Fetch performs the request and returns the body for streaming. The
// caller must close it.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("execute request: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
