package cache

import (
	"time"
)

// CacheService represents a generic cache service. The crawler uses it
// for per-brand rate-limit cooldowns; a key's presence means the brand
// is still inside its block window.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
