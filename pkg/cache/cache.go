// Package cache provides the key/value backends canvaskit persists
// short-lived state in.
//
// Two things live in a cache: the clipboard, so that `canvaskit copy` and
// `canvaskit paste` can run as separate processes, and parsed import
// documents, keyed by a content hash so re-importing the same bytes skips
// validation.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory (CLI default)
//   - [MemoryCache]: in-process map (tests, `serve` without Redis)
//   - [RedisCache]: shared cache for `serve` deployments
//   - [NullCache]: stores nothing
//
// All backends honour the entry TTL; a zero TTL never expires.
//
// # Keys
//
// Keys are built by a [Keyer] so that callers never hand-format them.
// [NewScopedKeyer] prefixes every key. The API server scopes its entries
// under "api:" so they never collide with CLI entries in a shared Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
