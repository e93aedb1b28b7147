package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// SiteConfigCacheKey caches the siteConfig document
	SiteConfigCacheKey = "site_config"
	// DashboardCacheKey caches the admin dashboard aggregates
	DashboardCacheKey = "admin_dashboard"

	SiteConfigCacheTTL = 5 * time.Minute
	DashboardCacheTTL  = 1 * time.Minute
)

// CacheService is a small JSON read-through cache on Redis.
type CacheService struct{}

// Get retrieves a value from cache. A miss is not an error.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // cache miss
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with the given TTL.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, CacheKeyPrefix+key, jsonData, ttl).Err()
}

// Delete removes a value from cache (after admin writes).
func (c *CacheService) Delete(ctx context.Context, key string) error {
	return database.RedisClient.Del(ctx, CacheKeyPrefix+key).Err()
}

// Global cache service instance
var Cache = &CacheService{}
