package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/forcefield/pkg/cache"
	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/observability"
)

// Defaults applied by Client for zero-valued fields.
const (
	DefaultTTL      = 24 * time.Hour
	DefaultAttempts = 3
	DefaultDelay    = time.Second

	// maxBodySize caps response bodies. Graph documents are text; anything
	// beyond this is a misdirected URL, not a graph.
	maxBodySize = 32 << 20
)

// Client fetches URLs with response caching and retry. The zero value is
// usable: it fetches through http.DefaultClient without caching.
//
// Fields may be set before first use and must not change afterwards.
type Client struct {
	HTTP     *http.Client  // nil means http.DefaultClient
	Cache    cache.Cache   // nil disables response caching
	Keyer    cache.Keyer   // nil means cache.NewDefaultKeyer()
	TTL      time.Duration // cache TTL, 0 means DefaultTTL
	Attempts int           // retry attempts, 0 means DefaultAttempts
	Delay    time.Duration // initial backoff, 0 means DefaultDelay
}

// Get returns the response body for url, consulting the cache first.
// Transient failures (network errors, 5xx, 429) are retried with
// exponential backoff; 4xx responses other than 429 fail immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	key := c.keyer().HTTPKey("get", url)
	if c.Cache != nil {
		if data, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var body []byte
	err := Retry(ctx, c.attempts(), c.delay(), func() error {
		var err error
		body, err = c.fetch(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, body, c.ttl()); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(body))
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)

	start := time.Now()
	resp, err := c.http().Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "get %s", url)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
		if err != nil {
			return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)}
		}
		if len(data) > maxBodySize {
			return nil, errors.New(errors.ErrCodeInvalidInput, "response from %s exceeds %d bytes", url, maxBodySize)
		}
		return data, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return nil, &RetryableError{Err: &errors.RateLimitedError{
			RetryAfter: retryAfter,
			Message:    fmt.Sprintf("get %s", url),
		}}

	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "%s returned 404", url)

	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s returned %d", url, resp.StatusCode)}

	default:
		return nil, errors.New(errors.ErrCodeNetwork, "%s returned %d", url, resp.StatusCode)
	}
}

func (c *Client) http() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) keyer() cache.Keyer {
	if c.Keyer != nil {
		return c.Keyer
	}
	return cache.NewDefaultKeyer()
}

func (c *Client) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultTTL
}

func (c *Client) attempts() int {
	if c.Attempts > 0 {
		return c.Attempts
	}
	return DefaultAttempts
}

func (c *Client) delay() time.Duration {
	if c.Delay > 0 {
		return c.Delay
	}
	return DefaultDelay
}
