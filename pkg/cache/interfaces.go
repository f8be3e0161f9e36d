package cache

import "jammanage-backend/internal/models"

// ListingCacheManager caches the public vehicle catalogue. Detail entries
// are keyed by slug and tagged with the vehicle id so writes can evict them
// without knowing the slug; listing entries share a single tag.
type ListingCacheManager interface {
	GetDetail(slug string) (*models.PublicVehicle, error)
	SetDetail(slug string, vehicle *models.PublicVehicle) error

	GetListing(key string, dest interface{}) (bool, error)
	SetListing(key string, value interface{}) error

	InvalidateVehicle(vehicleID string) error
	InvalidateListings() error

	GetCacheStats() CacheStats
	HealthCheck() error
	Close() error
}

// CacheStats provides cache performance metrics.
type CacheStats struct {
	HitRate       float64 `json:"hitRate"`
	MissRate      float64 `json:"missRate"`
	KeyCount      int     `json:"keyCount"`
	EvictionCount int     `json:"evictionCount"`
	TotalHits     int64   `json:"totalHits"`
	TotalMisses   int64   `json:"totalMisses"`
}
