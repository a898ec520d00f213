package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fantasytools/ranksheet/pkg/cache"
	"github.com/fantasytools/ranksheet/pkg/httputil"
)

const httpTimeout = 20 * time.Second

// userAgent is a browser-like agent; some editorial pages refuse the Go
// default.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 " +
	"(KHTML, like Gecko) Version/17.0 Safari/605.1.15"

// Client provides shared HTTP functionality for all providers.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	headers map[string]string
}

// NewClient creates a Client with the given cache backend and default
// headers. Pass nil headers to use browser-like defaults.
func NewClient(c cache.Cache, headers map[string]string) *Client {
	if headers == nil {
		headers = map[string]string{
			"User-Agent": userAgent,
			"Accept":     "text/html,application/xhtml+xml,application/json",
		}
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		headers: headers,
	}
}

// WithHTTPClient swaps the underlying HTTP client. Tests inject an
// httptest-backed client here instead of toggling behavior through the
// environment.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Cache exposes the client's cache backend.
func (c *Client) Cache() cache.Cache { return c.cache }

// Cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true the cache is bypassed. The fetch function runs
// under the standard retry policy and should populate v; on success v is
// stored back. ttl overrides the cache default for the read when positive.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, ttl time.Duration, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := cache.GetJSON(ctx, c.cache, key, ttl, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	_ = cache.SetJSON(ctx, c.cache, key, v)
	return nil
}

// GetJSON performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a
// string. Used for CSV sheets and other non-JSON endpoints.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

// GetDoc performs an HTTP GET request and parses the response as an HTML
// document.
func (c *Client) GetDoc(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return goquery.NewDocumentFromReader(body)
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
