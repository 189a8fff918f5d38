// Package cache provides a time-bounded key/value cache used by the
// provider fetch layer to avoid redundant external calls. The TTL is
// fixed per cache and applied at write time; reading an expired or
// missing key behaves identically to a miss.
package cache

import (
	"context"
	"strings"
)

// Cache is the injected caching capability. Values are serialized as
// JSON, so any JSON-marshalable value can be stored.
type Cache interface {
	// Get unmarshals the cached value for key into target and reports
	// whether a live entry was found. Expired entries read as misses.
	Get(ctx context.Context, key string, target any) (bool, error)

	// Set stores value under key with the cache's fixed TTL.
	Set(ctx context.Context, key string, value any) error
}

// Key joins parts into a semantic cache key.
func Key(parts ...string) string {
	return strings.ToLower(strings.Join(parts, ":"))
}
