package cache

import "time"

// CacheService is a key/value cache with per-item expiry.
type CacheService interface {
	// Get returns the value and true when the key is present and not expired.
	Get(key string) (interface{}, bool)

	// Set stores value for ttl. A non-positive ttl uses the cache default.
	Set(key string, value interface{}, ttl time.Duration)

	Delete(key string)
}
