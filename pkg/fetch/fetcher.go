// Package fetch retrieves remote background images for the rendering engine.
//
// Fetches go through a retrying HTTP client and land in a small in-memory LRU
// keyed by URL, so repeated screenshots against the same background do not
// re-download it. The cache holds response bytes only; render output is never
// cached.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultMaxBytes caps a single downloaded image.
	DefaultMaxBytes = 10 << 20
	// DefaultCacheSize is the number of URLs kept in the LRU.
	DefaultCacheSize = 32
)

// Client downloads and caches remote images. Safe for concurrent use.
type Client struct {
	hc       *http.Client
	cache    *lru.Cache[string, []byte]
	maxBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithMaxBytes overrides the per-download size cap.
func WithMaxBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New builds a Client with a retrying transport and an LRU of cacheSize URLs.
func New(cacheSize int, opts ...Option) (*Client, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating fetch cache: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil

	c := &Client{
		hc:       rc.StandardClient(),
		cache:    cache,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch returns the bytes behind url, from cache when possible.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := c.cache.Get(url); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}
	if resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("fetching %s: body exceeds %d byte limit", url, c.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("fetching %s: body exceeds %d byte limit", url, c.maxBytes)
	}

	c.cache.Add(url, data)
	return data, nil
}

// CacheLen reports how many URLs are currently cached.
func (c *Client) CacheLen() int {
	return c.cache.Len()
}
