// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"hirehub/internal/cache"
	"hirehub/internal/database"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	Job            JobRepository
	Applicant      ApplicantRepository
	Application    ApplicationRepository
	ContactMessage ContactMessageRepository
	Subscriber     EmailSubscriberRepository
	Content        ContentSectionRepository
	Admin          AdminRepository
	Stats          StatsRepository

	db     *database.Manager
	base   *BaseRepository
	stats  *statsRepository
	config RepositoryConfig
	logger *zap.Logger
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	// StatsTTL bounds how long a cached aggregation may be served
	StatsTTL   time.Duration
	BCryptCost int
}

// DefaultRepositoryConfig returns the defaults used when NewCollection gets nil
func DefaultRepositoryConfig() *RepositoryConfig {
	return &RepositoryConfig{
		StatsTTL:   time.Minute,
		BCryptCost: bcrypt.DefaultCost,
	}
}

// NewCollection creates a repository collection on the shared connection.
// c caches aggregation results and may be nil.
func NewCollection(db *database.Manager, c cache.Cache, logger *zap.Logger, config *RepositoryConfig) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = DefaultRepositoryConfig()
	}

	stats := newStatsRepository(NewBaseRepository(db, logger, nil), c, config.StatsTTL)
	base := NewBaseRepository(db, logger, stats)

	collection := assemble(db, base, stats, *config, logger)

	logger.Info("Repository collection initialized successfully",
		zap.Duration("stats_ttl", config.StatsTTL),
		zap.Bool("stats_cache", c != nil),
	)
	return collection, nil
}

func assemble(db *database.Manager, base *BaseRepository, stats *statsRepository, config RepositoryConfig, logger *zap.Logger) *Collection {
	return &Collection{
		Job:            NewJobRepository(base),
		Applicant:      NewApplicantRepository(base),
		Application:    NewApplicationRepository(base),
		ContactMessage: NewContactMessageRepository(base),
		Subscriber:     NewEmailSubscriberRepository(base),
		Content:        NewContentSectionRepository(base),
		Admin:          NewAdminRepository(base, config.BCryptCost),
		Stats:          stats,

		db:     db,
		base:   base,
		stats:  stats,
		config: config,
		logger: logger,
	}
}

// ===============================
// TRANSACTION MANAGEMENT
// ===============================

// WithTransaction runs fn with a collection whose repositories all share one
// transaction. It commits when fn returns nil and rolls back otherwise.
// Cached aggregations are invalidated once, after a commit that wrote.
//
// The store has a single connection: fn must only use the collection it is
// given, never the outer one, or it will wait on itself.
func (c *Collection) WithTransaction(ctx context.Context, fn func(*Collection) error) error {
	if c.base.tx != nil {
		return fn(c)
	}

	pending := &pendingInvalidation{}
	err := c.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		txBase := c.base.bind(tx, pending)
		// Stats read inside the transaction see uncommitted rows: never cache them
		txStats := newStatsRepository(c.base.bind(tx, nil), nil, 0)
		return fn(assemble(c.db, txBase, txStats, c.config, c.logger))
	})
	if err != nil {
		return err
	}

	if pending.dirty.Load() {
		c.stats.Invalidate(ctx)
	}
	return nil
}

// pendingInvalidation records writes made inside a transaction
type pendingInvalidation struct {
	dirty atomic.Bool
}

func (p *pendingInvalidation) Invalidate(context.Context) {
	p.dirty.Store(true)
}

// ===============================
// HEALTH AND MONITORING
// ===============================

// HealthCheck reports store health and query metrics
func (c *Collection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	dbHealth := c.db.Health(ctx)
	health["database"] = dbHealth

	metrics := c.db.Metrics()
	health["performance"] = map[string]interface{}{
		"query_count":        metrics.QueryCount,
		"error_count":        metrics.ErrorCount,
		"slow_query_count":   metrics.SlowQueryCount,
		"avg_query_duration": metrics.AvgQueryDuration.String(),
	}

	if cacheStats, err := c.stats.cache.Stats(ctx); err == nil {
		health["cache"] = cacheStats
	} else {
		health["cache"] = map[string]interface{}{"error": err.Error()}
	}

	return health
}
