// internal/cache/cache.go
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hirehub/internal/config"

	"go.uber.org/zap"
)

// ===============================
// CACHE INTERFACE
// ===============================

// Cache stores JSON-encoded values under string keys. It only ever holds
// derived data (aggregation results), so every implementation may drop
// entries at any time.
type Cache interface {
	// Get decodes the value stored under key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error

	Stats(ctx context.Context) (*Stats, error)
	Health(ctx context.Context) error
	Close() error
}

// Stats represents cache statistics
type Stats struct {
	Provider string  `json:"provider"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Sets     int64   `json:"sets"`
	Deletes  int64   `json:"deletes"`
	Keys     int64   `json:"keys"`
	HitRatio float64 `json:"hit_ratio"`
}

func (s *Stats) computeRatio() {
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRatio = float64(s.Hits) / float64(total)
	}
}

const (
	ProviderNone   = "none"
	ProviderMemory = "memory"
	ProviderRedis  = "redis"

	defaultTTL     = time.Minute
	defaultMaxKeys = 10000
)

// ===============================
// FACTORY FUNCTION
// ===============================

// New creates a cache instance based on configuration
func New(cfg config.CacheConfig, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderRedis:
		return NewRedisCache(cfg, logger)
	case ProviderMemory, "":
		logger.Info("Using in-memory cache", zap.Duration("ttl", cfg.TTL))
		return NewMemoryCache(cfg.TTL, defaultMaxKeys, logger), nil
	case ProviderNone:
		logger.Info("Caching disabled")
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// ===============================
// HELPERS
// ===============================

// Remember returns the cached value for key, computing and storing it with
// fn on a miss. Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, c Cache, logger *zap.Logger, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if c != nil {
		found, err := c.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			logger.Debug("Cache hit", zap.String("key", key))
			return cached, nil
		}
	}

	result, err := fn()
	if err != nil {
		return result, err
	}

	if c != nil {
		if err := c.Set(ctx, key, result, ttl); err != nil {
			logger.Warn("Failed to cache result", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}
