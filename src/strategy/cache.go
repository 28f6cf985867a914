// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package strategy

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// CacheEntry is a cached revocation response with metadata.
type CacheEntry struct {
	Data       []byte    // Raw OCSP response or CRL
	FetchedAt  time.Time // When this response was fetched
	NextUpdate time.Time // When the responder publishes newer data
	Key        string    // Cache key, for debugging
}

// isFresh checks if the cached response can still be used.
func (entry *CacheEntry) isFresh(now time.Time, maxAge time.Duration) bool {
	return entry.NextUpdate.After(now) && entry.FetchedAt.After(now.Add(-maxAge))
}

// isExpired checks if the response is past its NextUpdate plus a grace period.
func (entry *CacheEntry) isExpired(now time.Time) bool {
	return entry.NextUpdate.Before(now.Add(-1 * time.Hour))
}

// CacheConfig holds configuration for the [ResponseCache].
type CacheConfig struct {
	MaxSize int           // Maximum number of responses to cache (0 = unlimited, but not recommended)
	MaxAge  time.Duration // Maximum time a response is served from cache (default: 24 hours)
}

// CacheMetrics tracks cache performance and usage.
type CacheMetrics struct {
	Size        int64 // Current number of cached responses
	Hits        int64 // Number of cache hits
	Misses      int64 // Number of cache misses
	Evictions   int64 // Number of LRU evictions
	Cleanups    int64 // Number of expired response cleanups
	TotalMemory int64 // Approximate memory usage in bytes
}

// DefaultCacheConfig is used by [NewResponseCache] for zero fields.
var DefaultCacheConfig = CacheConfig{
	MaxSize: 100,
	MaxAge:  24 * time.Hour,
}

// ResponseCache is an LRU cache of revocation responses keyed by
// responder and certificate.
//
// Thread Safety: Safe for concurrent use.
type ResponseCache struct {
	mu      sync.Mutex
	config  CacheConfig
	entries map[string]*CacheEntry
	order   []string // Maintains access order for LRU eviction

	hits, misses, evictions, cleanups atomic.Int64

	// now is replaced in tests.
	now func() time.Time
}

// NewResponseCache creates a cache. Zero fields of config take their value
// from [DefaultCacheConfig]; a negative MaxSize means unlimited.
func NewResponseCache(config CacheConfig) *ResponseCache {
	if config.MaxSize == 0 {
		config.MaxSize = DefaultCacheConfig.MaxSize
	}
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultCacheConfig.MaxAge
	}

	return &ResponseCache{
		config:  config,
		entries: make(map[string]*CacheEntry),
		now:     time.Now,
	}
}

// Get returns a copy of a fresh response and updates its access order.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists || !entry.isFresh(c.now(), c.config.MaxAge) {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	c.touch(key)
	return slices.Clone(entry.Data), true
}

// Set stores a response, evicting the least recently used entries when the
// cache is full.
func (c *ResponseCache) Set(key string, data []byte, nextUpdate time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for c.config.MaxSize > 0 && len(c.entries) >= c.config.MaxSize && len(c.order) > 0 {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
			c.evictions.Add(1)
		}
	}

	c.entries[key] = &CacheEntry{
		Data:       slices.Clone(data),
		FetchedAt:  c.now(),
		NextUpdate: nextUpdate,
		Key:        key,
	}
	c.touch(key)
}

// Cleanup removes responses past their NextUpdate and returns how many
// were removed.
func (c *ResponseCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if entry.isExpired(now) {
			delete(c.entries, key)
			c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
			removed++
		}
	}

	c.cleanups.Add(int64(removed))
	return removed
}

// Clear removes every entry and resets the metrics.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)
	c.order = nil
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.cleanups.Store(0)
}

// Metrics returns the current cache metrics.
func (c *ResponseCache) Metrics() CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	var totalMemory int64
	for _, entry := range c.entries {
		totalMemory += int64(len(entry.Data)) + int64(len(entry.Key)) + 24 // Approximate overhead
	}

	return CacheMetrics{
		Size:        int64(len(c.entries)),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Cleanups:    c.cleanups.Load(),
		TotalMemory: totalMemory,
	}
}

// Stats returns a formatted string with cache statistics.
func (c *ResponseCache) Stats() string {
	metrics := c.Metrics()

	hitRate := float64(0)
	totalRequests := metrics.Hits + metrics.Misses
	if totalRequests > 0 {
		hitRate = float64(metrics.Hits) / float64(totalRequests) * 100
	}

	return fmt.Sprintf("Revocation Cache Statistics:\n"+
		"  Size: %d/%d entries\n"+
		"  Memory Usage: %.2f KB\n"+
		"  Hit Rate: %.1f%% (%d hits, %d misses)\n"+
		"  Evictions: %d\n"+
		"  Cleanups: %d",
		metrics.Size, c.config.MaxSize,
		float64(metrics.TotalMemory)/1024,
		hitRate, metrics.Hits, metrics.Misses,
		metrics.Evictions,
		metrics.Cleanups)
}

// touch moves key to the most recently used position. Callers hold c.mu.
func (c *ResponseCache) touch(key string) {
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	c.order = append(c.order, key)
}
