package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// memoryCache implements Cache with a process-local map
type memoryCache struct {
	mu         sync.Mutex
	items      map[string]*cacheItem
	maxKeys    int
	defaultTTL time.Duration
	logger     *zap.Logger
	stats      Stats
	stopCh     chan struct{}
	stopOnce   sync.Once
}

type cacheItem struct {
	data       []byte
	expiresAt  time.Time
	accessedAt time.Time
}

// NewMemoryCache creates a new in-memory cache. Expired entries are swept
// periodically; when full, the least recently used entry is evicted.
func NewMemoryCache(ttl time.Duration, maxKeys int, logger *zap.Logger) Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &memoryCache{
		items:      make(map[string]*cacheItem),
		maxKeys:    maxKeys,
		defaultTTL: ttl,
		logger:     logger,
		stats:      Stats{Provider: ProviderMemory},
		stopCh:     make(chan struct{}),
	}

	go c.cleanup(ttl)

	return c
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	item, ok := c.items[key]
	now := time.Now()
	if ok && now.After(item.expiresAt) {
		delete(c.items, key)
		ok = false
	}
	if !ok {
		c.stats.Misses++
		c.mu.Unlock()
		return false, nil
	}
	item.accessedAt = now
	c.stats.Hits++
	data := item.data
	c.mu.Unlock()

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value %s: %w", key, err)
	}
	return true, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxKeys {
		c.evictLRU()
	}

	now := time.Now()
	c.items[key] = &cacheItem{
		data:       data,
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	}
	c.stats.Sets++
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; exists {
		delete(c.items, key)
		c.stats.Deletes++
	}
	return nil
}

func (c *memoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			c.stats.Deletes++
		}
	}
	return nil
}

func (c *memoryCache) Stats(ctx context.Context) (*Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Keys = int64(len(c.items))
	stats.computeRatio()
	return &stats, nil
}

func (c *memoryCache) Health(ctx context.Context) error {
	return nil
}

func (c *memoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

func (c *memoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *memoryCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			expired++
		}
	}

	if expired > 0 {
		c.logger.Debug("Cleaned up expired cache items",
			zap.Int("expired_count", expired),
			zap.Int("remaining_count", len(c.items)),
		)
	}
}

// evictLRU evicts the least recently used item; caller holds the lock
func (c *memoryCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.accessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.accessedAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
