package cache

import "time"

// CacheConfig holds TTL values and key layout for the listing cache.
type CacheConfig struct {
	DetailTTL time.Duration `json:"detailTTL"` // single vehicle detail pages
	ListTTL   time.Duration `json:"listTTL"`   // paginated listing responses
	KeyPrefix string        `json:"keyPrefix"`
	TagPrefix string        `json:"tagPrefix"`
}

// DefaultCacheConfig returns the defaults used by the public catalogue.
// Listings churn faster than details, so they expire sooner.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DetailTTL: 5 * time.Minute,
		ListTTL:   time.Minute,
		KeyPrefix: "jam:",
		TagPrefix: "jamtag:",
	}
}
