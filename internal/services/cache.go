package services

import (
	"sync"
	"time"

	"feedbackpulse/pkg/contracts/domain"
)

// CacheEntry is a cleaned dataset held in memory
type CacheEntry struct {
	Dataset   *domain.Dataset `json:"-"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	HitCount  int             `json:"hit_count"`
}

// CacheStats is a snapshot of the cache counters
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxSize    int     `json:"max_size"`
	HitCount   int64   `json:"hit_count"`
	MissCount  int64   `json:"miss_count"`
	HitRatio   float64 `json:"hit_ratio"`
	TTLSeconds float64 `json:"ttl_seconds"`
}

// DatasetCache keeps cleaned datasets by source location until they expire.
// Datasets are shared between readers and must not be modified.
type DatasetCache struct {
	entries   map[string]CacheEntry
	mutex     sync.RWMutex
	ttl       time.Duration
	maxSize   int
	hitCount  int64
	missCount int64
	now       func() time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewDatasetCache creates a cache and starts its expiry sweeper
func NewDatasetCache(ttl time.Duration, maxSize int) *DatasetCache {
	cache := &DatasetCache{
		entries:  make(map[string]CacheEntry),
		ttl:      ttl,
		maxSize:  maxSize,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// Get returns the dataset cached for key if it has not expired
func (c *DatasetCache) Get(key string) (*domain.Dataset, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists || !c.now().Before(entry.ExpiresAt) {
		c.missCount++
		return nil, false
	}

	entry.HitCount++
	c.entries[key] = entry
	c.hitCount++

	return entry.Dataset, true
}

// Peek returns the entry for key without touching the counters
func (c *DatasetCache) Peek(key string) (CacheEntry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists || !c.now().Before(entry.ExpiresAt) {
		return CacheEntry{}, false
	}
	return entry, true
}

// Set stores a dataset under key
func (c *DatasetCache) Set(key string, dataset *domain.Dataset) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.maxSize <= 0 || dataset == nil {
		return
	}

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	now := c.now()
	c.entries[key] = CacheEntry{
		Dataset:   dataset,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
}

// Invalidate removes the dataset cached for key
func (c *DatasetCache) Invalidate(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, exists := c.entries[key]
	delete(c.entries, key)
	return exists
}

// GetStats returns cache statistics
func (c *DatasetCache) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	totalRequests := c.hitCount + c.missCount
	hitRatio := float64(0)
	if totalRequests > 0 {
		hitRatio = float64(c.hitCount) / float64(totalRequests)
	}

	return CacheStats{
		Entries:    len(c.entries),
		MaxSize:    c.maxSize,
		HitCount:   c.hitCount,
		MissCount:  c.missCount,
		HitRatio:   hitRatio,
		TTLSeconds: c.ttl.Seconds(),
	}
}

func (c *DatasetCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.CachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CachedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Stop stops the expiry sweeper. It is safe to call more than once.
func (c *DatasetCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *DatasetCache) sweep() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *DatasetCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopChan:
			return
		}
	}
}
