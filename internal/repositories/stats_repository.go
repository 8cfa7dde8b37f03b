package repositories

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"hirehub/internal/cache"
	"hirehub/internal/models"

	"go.uber.org/zap"
)

// StatsCachePrefix namespaces every cached aggregation
const StatsCachePrefix = "stats:"

// statsRepository answers grouped counts, caching results until the next write.
// Keys carry the invalidation generation: a count computed before a write
// lands under a key no later read asks for.
type statsRepository struct {
	*BaseRepository
	cache      cache.Cache
	ttl        time.Duration
	generation atomic.Uint64
}

// newStatsRepository creates a stats repository; c may be nil to disable caching
func newStatsRepository(base *BaseRepository, c cache.Cache, ttl time.Duration) *statsRepository {
	if c == nil {
		c = cache.NewNoop()
	}
	return &statsRepository{BaseRepository: base, cache: c, ttl: ttl}
}

// Invalidate drops every cached aggregation
func (r *statsRepository) Invalidate(ctx context.Context) {
	r.generation.Add(1)
	if err := r.cache.DeletePrefix(ctx, StatsCachePrefix); err != nil {
		r.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
	}
}

// cacheKey names an aggregation within the current generation
func (r *statsRepository) cacheKey(name string) string {
	return StatsCachePrefix + strconv.FormatUint(r.generation.Load(), 10) + ":" + name
}

// ===============================
// JOB FACETS
// ===============================

func (r *statsRepository) JobsByCategory(ctx context.Context) (models.FacetCounts, error) {
	return r.activeJobFacet(ctx, "category")
}

func (r *statsRepository) JobsByType(ctx context.Context) (models.FacetCounts, error) {
	return r.activeJobFacet(ctx, "type")
}

func (r *statsRepository) JobsByCountry(ctx context.Context) (models.FacetCounts, error) {
	return r.activeJobFacet(ctx, "country")
}

func (r *statsRepository) JobsByExperience(ctx context.Context) (models.FacetCounts, error) {
	return r.activeJobFacet(ctx, "experience")
}

// activeJobFacet groups active jobs by column. Blank values are left out:
// the listing cannot filter on them.
func (r *statsRepository) activeJobFacet(ctx context.Context, column string) (models.FacetCounts, error) {
	where := newWhere().
		add("status = ?", models.JobStatusActive).
		add(column + " <> ''")
	return r.groupCount(ctx, "jobs:"+column, "jobs", column, where)
}

// JobFacets gathers every job facet for the listing filters
func (r *statsRepository) JobFacets(ctx context.Context) (*models.JobFacets, error) {
	var (
		facets models.JobFacets
		err    error
	)
	if facets.Categories, err = r.JobsByCategory(ctx); err != nil {
		return nil, err
	}
	if facets.Types, err = r.JobsByType(ctx); err != nil {
		return nil, err
	}
	facets.Types = facets.Types.SortByKeys([]string{
		models.JobTypeFullTime, models.JobTypePartTime, models.JobTypeContract,
	})
	if facets.Countries, err = r.JobsByCountry(ctx); err != nil {
		return nil, err
	}
	if facets.Experiences, err = r.JobsByExperience(ctx); err != nil {
		return nil, err
	}
	return &facets, nil
}

// ===============================
// STATUS BREAKDOWNS
// ===============================

func (r *statsRepository) ApplicationsByStatus(ctx context.Context) (models.FacetCounts, error) {
	return r.groupCount(ctx, "applications:status", "applications", "status", newWhere())
}

func (r *statsRepository) MessagesByStatus(ctx context.Context) (models.FacetCounts, error) {
	return r.groupCount(ctx, "contact_messages:status", "contact_messages", "status", newWhere())
}

func (r *statsRepository) SubscribersByStatus(ctx context.Context) (models.FacetCounts, error) {
	return r.groupCount(ctx, "email_subscribers:status", "email_subscribers", "status", newWhere())
}

// Dashboard summarises the store for the admin overview
func (r *statsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return cache.Remember(ctx, r.cache, r.logger, r.cacheKey("dashboard"), r.ttl, func() (*models.DashboardStats, error) {
		ctx, cancel := r.operationContext(ctx)
		defer cancel()

		var stats models.DashboardStats
		err := r.QueryRowContext(ctx, `
			SELECT
				(SELECT COUNT(*) FROM jobs),
				(SELECT COUNT(*) FROM jobs WHERE status = ?),
				(SELECT COUNT(*) FROM jobs WHERE status = ? AND featured = 1),
				(SELECT COUNT(*) FROM applicants),
				(SELECT COUNT(*) FROM applications),
				(SELECT COUNT(*) FROM applications WHERE status = ?),
				(SELECT COUNT(*) FROM contact_messages WHERE status = ?),
				(SELECT COUNT(*) FROM email_subscribers WHERE status = ?)`,
			models.JobStatusActive, models.JobStatusActive, models.ApplicationStatusPending,
			models.ContactStatusNew, models.SubscriberStatusActive,
		).Scan(
			&stats.TotalJobs, &stats.ActiveJobs, &stats.FeaturedJobs, &stats.TotalApplicants,
			&stats.TotalApplications, &stats.PendingApplications, &stats.NewMessages, &stats.ActiveSubscribers,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load dashboard totals: %w", err)
		}

		byStatus, err := r.ApplicationsByStatus(ctx)
		if err != nil {
			return nil, err
		}
		stats.ApplicationsByState = byStatus.SortByKeys(models.ApplicationStatuses)

		messages, err := r.MessagesByStatus(ctx)
		if err != nil {
			return nil, err
		}
		stats.MessagesByState = messages.SortByKeys(models.ContactStatuses)

		return &stats, nil
	})
}

// groupCount runs SELECT column, COUNT(*) ... GROUP BY column ordered by
// count descending then key, through the cache.
func (r *statsRepository) groupCount(ctx context.Context, key, table, column string, where *whereBuilder) (models.FacetCounts, error) {
	return cache.Remember(ctx, r.cache, r.logger, r.cacheKey(key), r.ttl, func() (models.FacetCounts, error) {
		ctx, cancel := r.operationContext(ctx)
		defer cancel()

		query := "SELECT " + column + ", COUNT(*) FROM " + table + where.String() +
			" GROUP BY " + column + " ORDER BY COUNT(*) DESC, " + column + " ASC"

		counts, err := queryList(ctx, r.BaseRepository, query, where.Args(), func(row rowScanner) (models.FacetCount, error) {
			var fc models.FacetCount
			err := row.Scan(&fc.Key, &fc.Count)
			return fc, err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s by %s: %w", table, column, err)
		}
		return models.FacetCounts(counts), nil
	})
}
