package cache

import (
	"context"
	"time"
)

// NullCache is the cache of --no-cache: every Get misses and every write
// is discarded. As a clipboard backend it makes each paste start empty.
type NullCache struct{}

// NewNullCache returns a cache that keeps nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
