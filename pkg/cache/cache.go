// Package cache provides byte-level caching with pluggable backends and the
// key-derivation layer shared by everything that caches in forcefield.
//
// Two kinds of data are cached: HTTP response bodies fetched during URL
// imports, and analyzer results keyed by graph content hash. Layout positions
// are never cached; a layout run is expected to produce fresh physics every
// time it is asked for.
//
// [Keyer] produces collision-safe keys for both kinds. [FileCache] persists
// entries under a sharded directory tree; [NullCache] disables caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by the typed helpers when no fresh entry exists
// for a key.
var ErrNotFound = errors.New("cache entry not found")

// TTLAnalysis is how long analyzer results stay valid. Analysis is a pure
// function of the graph, so entries expire only to bound disk usage.
const TTLAnalysis = 7 * 24 * time.Hour

// Cache stores opaque byte values with a per-entry TTL.
//
// Implementations treat an expired entry as absent: Get reports
// (nil, false, nil) for both misses and expirations. Errors are reserved
// for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON reads a cached JSON document into v. A miss or an expired entry
// yields ErrNotFound.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
