package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"hirehub/internal/cache"
	"hirehub/internal/response"

	"go.uber.org/zap"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiterConfig holds rate limiting configuration
type RateLimiterConfig struct {
	Enabled bool `json:"enabled"`
	// Requests allowed per client IP in each fixed window
	Limit  int           `json:"limit"`
	Window time.Duration `json:"window"`
}

// DefaultRateLimiterConfig returns a limit suited to public form endpoints
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled: true,
		Limit:   10,
		Window:  time.Minute,
	}
}

// RateLimitResult is the outcome of one limit check
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// RateLimiter counts requests per client IP in fixed windows stored in the
// shared cache. Counters are best effort: when the cache drops an entry or
// is disabled the client simply gets a fresh window.
type RateLimiter struct {
	cache   cache.Cache
	config  *RateLimiterConfig
	builder *response.Builder
	logger  *zap.Logger
	mu      sync.Mutex
	now     func() time.Time
}

// NewRateLimiter creates a limiter backed by c
func NewRateLimiter(c cache.Cache, config *RateLimiterConfig, builder *response.Builder, logger *zap.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.NewNoop()
	}
	if builder == nil {
		builder = response.NewBuilder(nil, logger)
	}
	return &RateLimiter{
		cache:   c,
		config:  config,
		builder: builder,
		logger:  logger,
		now:     time.Now,
	}
}

// Handler rejects requests over the limit with 429 and the standard error envelope
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enabled || rl.config.Limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := getClientIP(r)
		result := rl.Check(r.Context(), ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(result.ResetTime.Sub(rl.now()).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			GetRequestLogger(r.Context()).Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.Int("limit", result.Limit),
			)
			rl.builder.WriteError(w, r, &response.APIError{
				Type:       "RATE_LIMIT_EXCEEDED",
				Message:    "Too many requests, try again later",
				StatusCode: http.StatusTooManyRequests,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Check counts one request for key in the current window
func (rl *RateLimiter) Check(ctx context.Context, key string) *RateLimitResult {
	now := rl.now()
	windowStart := now.Truncate(rl.config.Window)
	windowKey := fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())
	result := &RateLimitResult{
		Limit:     rl.config.Limit,
		ResetTime: windowStart.Add(rl.config.Window),
	}

	// Get and Set are separate cache calls; serialise them within the process
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var count int
	if _, err := rl.cache.Get(ctx, windowKey, &count); err != nil {
		// Fail open: a broken cache must not take the forms down
		rl.logger.Warn("Rate limit counter read failed", zap.String("key", windowKey), zap.Error(err))
		result.Allowed = true
		result.Remaining = rl.config.Limit
		return result
	}

	if count >= rl.config.Limit {
		return result
	}

	count++
	if err := rl.cache.Set(ctx, windowKey, count, rl.config.Window); err != nil {
		rl.logger.Warn("Rate limit counter write failed", zap.String("key", windowKey), zap.Error(err))
	}
	result.Allowed = true
	result.Remaining = rl.config.Limit - count
	return result
}
