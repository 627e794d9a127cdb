// Package cache stores rendered map diagrams so that drawing an unchanged
// map twice skips the Graphviz layout.
//
// Entries are keyed by [RenderKey], a hash of the DOT source and the output
// format, so any edit to the map produces a new key and stale entries are
// simply never read again. [FileCache] keeps entries under the user cache
// directory; [NullCache] disables caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// RenderTTL is how long a rendered diagram stays cached.
const RenderTTL = 7 * 24 * time.Hour

// RenderKey returns the cache key for dot rendered as format.
func RenderKey(dot, format string) string {
	return "render:" + format + ":" + Hash([]byte(dot))
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
