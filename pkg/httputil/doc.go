// Package httputil provides the HTTP client used for graph imports from URLs.
//
// # Overview
//
// [Client] wraps net/http with the two behaviors every remote import needs:
//
//   - Response caching through a [cache.Cache], so repeated imports of the
//     same document do not refetch it
//   - Automatic retry with exponential backoff for transient failures
//     (network errors, 5xx responses, 429 rate limits)
//
// # Usage
//
//	fc, _ := cache.NewFileCache(dir)
//	client := &httputil.Client{Cache: fc}
//	body, err := client.Get(ctx, "https://example.com/graph.json")
//
// The zero value works without caching:
//
//	body, err := new(httputil.Client).Get(ctx, url)
//
// # Retry
//
// [Retry] is the backoff loop behind Client and is exported for callers with
// their own transient operations. Only errors wrapped in [RetryableError]
// trigger another attempt; everything else returns immediately.
package httputil
