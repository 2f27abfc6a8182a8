// Package cache stores rendered artifacts keyed by a hash of their input.
//
// Rendering a modifier chain to SVG runs Graphviz, which dominates the cost of
// the pipeline command and the /v1/pipeline route. Both look the SVG up by the
// hash of the DOT source first:
//
//	c, _ := cache.NewFileCache(dir)   // CLI: survives across runs
//	c := cache.NewMemoryCache(128)    // server: bounded, per process
//	c := cache.NewNullCache()         // --no-cache
//
// Implementations are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
