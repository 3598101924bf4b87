// Package cache provides byte-level caching for rendered artifacts.
//
// Rendering a tree to SVG requires a Graphviz layout pass, which dominates
// the runtime of the render command. Since the output depends only on the
// DOT source, rendered bytes are cached keyed by a hash of that source.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores rendered artifacts keyed by content hash.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RenderKey builds the cache key for a rendered artifact from its DOT
// source and output format. Two renders with identical DOT and format
// share an entry.
func RenderKey(dot string, format string) string {
	return "render:" + format + ":" + Hash([]byte(dot))
}
