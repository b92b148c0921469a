package utils

import (
	"fmt"
	"hellfire/pkg/logger"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// CacheItem wraps cached data with its expiry.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// GlobalCache is a process-local LRU with per-entry TTL.
type GlobalCache struct {
	lruCache *lru.Cache[string, CacheItem]
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// GetCache returns the shared cache instance.
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		c, err := NewCache(500)
		if err != nil {
			logger.Log.Fatal("Failed to create LRU cache", zap.Error(err))
		}
		cacheInstance = c
	})
	return cacheInstance
}

func NewCache(size int) (*GlobalCache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, err
	}
	return &GlobalCache{lruCache: l}, nil
}

// Set stores data under key for ttl.
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns nil for a missing or expired key.
func (c *GlobalCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// ContentKey derives a cache key from content, so edited text never hits a stale entry.
func ContentKey(prefix, content string) string {
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64String(content))
}
