package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"jammanage-backend/internal/models"
	"jammanage-backend/pkg/redis"

	redisClient "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listingsTag = "listings"

// RedisListingCache implements ListingCacheManager on top of the supervised
// Redis client. Cache failures are reported to the caller but never block a
// write path; callers treat them as soft errors.
type RedisListingCache struct {
	client *redis.Client
	config CacheConfig
	logger *zap.Logger
	stats  *cacheStats
	ctx    context.Context
}

type cacheStats struct {
	mu            sync.RWMutex
	totalHits     int64
	totalMisses   int64
	evictionCount int64
}

func NewRedisListingCache(client *redis.Client, config CacheConfig, logger *zap.Logger) *RedisListingCache {
	return &RedisListingCache{
		client: client,
		config: config,
		logger: logger,
		stats:  &cacheStats{},
		ctx:    context.Background(),
	}
}

// GetDetail returns the cached public view for a slug, or nil on a miss.
func (r *RedisListingCache) GetDetail(slug string) (*models.PublicVehicle, error) {
	key := r.buildKey("detail", slug)

	data, err := r.client.GetClient().Get(r.ctx, key).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get detail from cache: %w", err)
	}

	var vehicle models.PublicVehicle
	if err := json.Unmarshal([]byte(data), &vehicle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached detail: %w", err)
	}

	r.recordHit()
	return &vehicle, nil
}

// SetDetail caches a public view keyed by slug, tagged with the vehicle id
// so InvalidateVehicle can evict it later.
func (r *RedisListingCache) SetDetail(slug string, vehicle *models.PublicVehicle) error {
	key := r.buildKey("detail", slug)

	data, err := json.Marshal(vehicle)
	if err != nil {
		return fmt.Errorf("failed to marshal detail: %w", err)
	}

	if err := r.client.GetClient().Set(r.ctx, key, data, r.config.DetailTTL).Err(); err != nil {
		return fmt.Errorf("failed to set detail in cache: %w", err)
	}

	if err := r.tagKey(key, r.config.DetailTTL, "vehicle:"+vehicle.ID.Hex()); err != nil {
		r.logger.Warn("failed to tag cache key", zap.String("key", key), zap.Error(err))
	}

	return nil
}

// GetListing loads a cached listing response into dest; the bool reports
// whether the key was present.
func (r *RedisListingCache) GetListing(key string, dest interface{}) (bool, error) {
	cacheKey := r.buildKey("list", key)

	data, err := r.client.GetClient().Get(r.ctx, cacheKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return false, nil
		}
		return false, fmt.Errorf("failed to get listing from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached listing: %w", err)
	}

	r.recordHit()
	return true, nil
}

func (r *RedisListingCache) SetListing(key string, value interface{}) error {
	cacheKey := r.buildKey("list", key)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	if err := r.client.GetClient().Set(r.ctx, cacheKey, data, r.config.ListTTL).Err(); err != nil {
		return fmt.Errorf("failed to set listing in cache: %w", err)
	}

	if err := r.tagKey(cacheKey, r.config.ListTTL, listingsTag); err != nil {
		r.logger.Warn("failed to tag cache key", zap.String("key", cacheKey), zap.Error(err))
	}

	return nil
}

// InvalidateVehicle evicts every cached detail entry for a vehicle id.
func (r *RedisListingCache) InvalidateVehicle(vehicleID string) error {
	return r.invalidateByTag("vehicle:" + vehicleID)
}

// InvalidateListings evicts every cached listing page.
func (r *RedisListingCache) InvalidateListings() error {
	return r.invalidateByTag(listingsTag)
}

// tagKey records the tag-to-keys mapping used for eviction. Tag sets live
// slightly longer than the data so a late invalidation still finds them.
func (r *RedisListingCache) tagKey(key string, ttl time.Duration, tags ...string) error {
	pipe := r.client.GetClient().Pipeline()

	for _, tag := range tags {
		tagKeysKey := r.buildTagKey(tag)
		pipe.SAdd(r.ctx, tagKeysKey, key)
		pipe.Expire(r.ctx, tagKeysKey, ttl*2)
	}

	_, err := pipe.Exec(r.ctx)
	return err
}

func (r *RedisListingCache) invalidateByTag(tag string) error {
	tagKeysKey := r.buildTagKey(tag)

	keys, err := r.client.GetClient().SMembers(r.ctx, tagKeysKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for tag %s: %w", tag, err)
	}

	if len(keys) == 0 {
		return nil
	}

	pipe := r.client.GetClient().Pipeline()
	for _, key := range keys {
		pipe.Del(r.ctx, key)
	}
	pipe.Del(r.ctx, tagKeysKey)

	if _, err := pipe.Exec(r.ctx); err != nil {
		return fmt.Errorf("failed to invalidate keys for tag %s: %w", tag, err)
	}

	r.stats.mu.Lock()
	r.stats.evictionCount += int64(len(keys))
	r.stats.mu.Unlock()

	return nil
}

// GetCacheStats returns hit/miss counters and an approximate key count.
func (r *RedisListingCache) GetCacheStats() CacheStats {
	r.stats.mu.RLock()
	totalHits := r.stats.totalHits
	totalMisses := r.stats.totalMisses
	evictionCount := r.stats.evictionCount
	r.stats.mu.RUnlock()

	total := totalHits + totalMisses
	var hitRate, missRate float64
	if total > 0 {
		hitRate = float64(totalHits) / float64(total)
		missRate = float64(totalMisses) / float64(total)
	}

	keyCount := 0
	if keys, err := r.client.GetClient().Keys(r.ctx, r.config.KeyPrefix+"*").Result(); err == nil {
		keyCount = len(keys)
	}

	return CacheStats{
		HitRate:       hitRate,
		MissRate:      missRate,
		KeyCount:      keyCount,
		EvictionCount: int(evictionCount),
		TotalHits:     totalHits,
		TotalMisses:   totalMisses,
	}
}

// HealthCheck verifies cache connectivity.
func (r *RedisListingCache) HealthCheck() error {
	return r.client.GetClient().Ping(r.ctx).Err()
}

// Close closes the underlying Redis client.
func (r *RedisListingCache) Close() error {
	return r.client.Close()
}

func (r *RedisListingCache) buildKey(keyType, identifier string) string {
	return fmt.Sprintf("%s%s:%s", r.config.KeyPrefix, keyType, identifier)
}

func (r *RedisListingCache) buildTagKey(tag string) string {
	return fmt.Sprintf("%s%s", r.config.TagPrefix, tag)
}

func (r *RedisListingCache) recordHit() {
	r.stats.mu.Lock()
	r.stats.totalHits++
	r.stats.mu.Unlock()
}

func (r *RedisListingCache) recordMiss() {
	r.stats.mu.Lock()
	r.stats.totalMisses++
	r.stats.mu.Unlock()
}
