// Package cache holds the redis-backed cache for analysis reports. A nil
// *AnalysisCache is valid and disables caching.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hearthbutler/entity"

	"github.com/redis/go-redis/v9"
)

type AnalysisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAnalysisCache creates a cache over an existing redis client.
func NewAnalysisCache(rdb *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{rdb: rdb, ttl: ttl}
}

func analysisKey(ownerID uint, windowDays int) string {
	return fmt.Sprintf("inventory:analysis:%d:%d", ownerID, windowDays)
}

// Get returns the cached report, or nil on miss or cache error. A cache
// error is never surfaced; the analyzer just recomputes.
func (c *AnalysisCache) Get(ctx context.Context, ownerID uint, windowDays int) *entity.InventoryAnalysis {
	if c == nil {
		return nil
	}
	b, err := c.rdb.Get(ctx, analysisKey(ownerID, windowDays)).Bytes()
	if err != nil {
		return nil
	}
	var report entity.InventoryAnalysis
	if err := json.Unmarshal(b, &report); err != nil {
		return nil
	}
	return &report
}

// Set stores a report for the configured TTL, best-effort.
func (c *AnalysisCache) Set(ctx context.Context, report *entity.InventoryAnalysis) {
	if c == nil || report == nil {
		return
	}
	b, err := json.Marshal(report)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, analysisKey(report.OwnerID, report.WindowDays), b, c.ttl).Err()
}

// Invalidate drops every cached window for the owner after a mutation.
func (c *AnalysisCache) Invalidate(ctx context.Context, ownerID uint) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("inventory:analysis:%d:*", ownerID)
	keys, err := c.rdb.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
