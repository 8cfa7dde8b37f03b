package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hirehub/internal/database"
	"hirehub/internal/models"

	"go.uber.org/zap"
)

// Invalidator is told whenever a write changes data that derived views
// (cached statistics) depend on.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// BaseRepository provides the query plumbing shared by every repository.
// When tx is set every statement runs on that transaction instead of the
// shared connection.
type BaseRepository struct {
	db          *database.Manager
	tx          *sql.Tx
	logger      *zap.Logger
	invalidator Invalidator
}

// NewBaseRepository creates a base repository on the shared connection
func NewBaseRepository(db *database.Manager, logger *zap.Logger, invalidator Invalidator) *BaseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseRepository{
		db:          db,
		logger:      logger,
		invalidator: invalidator,
	}
}

// bind returns a copy of the base running on tx
func (r *BaseRepository) bind(tx *sql.Tx, invalidator Invalidator) *BaseRepository {
	return &BaseRepository{
		db:          r.db,
		tx:          tx,
		logger:      r.logger,
		invalidator: invalidator,
	}
}

// ===============================
// CORE DATABASE OPERATIONS
// ===============================

func (r *BaseRepository) executor() database.Executor {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ExecContext executes a statement. Statements on the shared connection are
// logged by the manager; transactional ones are logged here.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.executor().ExecContext(ctx, query, args...)
	r.observe(query, start, err)
	return result, err
}

// QueryContext executes a query that returns rows
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.executor().QueryContext(ctx, query, args...)
	r.observe(query, start, err)
	return rows, err
}

// QueryRowContext executes a query that returns a single row
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.executor().QueryRowContext(ctx, query, args...)
	r.observe(query, start, row.Err())
	return row
}

func (r *BaseRepository) observe(query string, start time.Time, err error) {
	if r.tx == nil {
		return
	}
	duration := time.Since(start)
	if err != nil && !isNotFound(err) {
		r.logger.Error("Transactional query failed",
			zap.String("query", compactQuery(query)),
			zap.Error(err),
		)
		return
	}
	if duration > r.db.SlowQueryThreshold() {
		r.logger.Warn("Slow query detected",
			zap.String("query", compactQuery(query)),
			zap.Duration("duration", duration),
		)
	}
}

// operationContext bounds one repository call by the configured query timeout
func (r *BaseRepository) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := r.db.QueryTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// ===============================
// TRANSACTION HELPERS
// ===============================

// WithTransaction runs fn with a base bound to one transaction. A repository
// already bound to a transaction reuses it, so the outer commit decides.
// The bound base never invalidates; callers do that once the write is final.
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*BaseRepository) error) error {
	if r.tx != nil {
		return fn(r.bind(r.tx, nil))
	}
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return fn(r.bind(tx, nil))
	})
}

// invalidate notifies derived views after a successful write
func (r *BaseRepository) invalidate(ctx context.Context) {
	if r.invalidator != nil {
		r.invalidator.Invalidate(ctx)
	}
}

// ===============================
// LISTING HELPERS
// ===============================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// listQuery is one paged listing: SELECT columns FROM from WHERE ... ORDER BY ...
type listQuery struct {
	columns string
	from    string
	where   *whereBuilder
	sort    sortSpec
}

// fetchPage runs the COUNT and the page query with the same WHERE clause and
// args, so total always agrees with the rows the filter selects. The count
// runs first: the single connection must be free before rows are streamed.
func fetchPage[T any](ctx context.Context, r *BaseRepository, q listQuery, p models.Pagination, scan func(rowScanner) (T, error)) (*models.Page[T], error) {
	p = p.Normalize()

	var total int64
	countSQL := "SELECT COUNT(*) FROM " + q.from + q.where.String()
	if err := r.QueryRowContext(ctx, countSQL, q.where.Args()...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	if total == 0 {
		return models.NewPage([]T{}, 0, p), nil
	}

	pageSQL := "SELECT " + q.columns + " FROM " + q.from + q.where.String() + q.sort.orderBy(p) + " LIMIT ? OFFSET ?"
	args := append(q.where.Args(), p.Limit, p.Offset())

	items, err := queryList(ctx, r, pageSQL, args, scan)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, total, p), nil
}

// queryList scans every row of query and closes the cursor before returning
func queryList[T any](ctx context.Context, r *BaseRepository, query string, args []interface{}, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return items, nil
}

// queryOne scans a single row, mapping no-rows to (nil, nil)
func queryOne[T any](ctx context.Context, r *BaseRepository, query string, args []interface{}, scan func(rowScanner) (*T, error)) (*T, error) {
	item, err := scan(r.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// deleteByID removes one row and reports whether it existed
func (r *BaseRepository) deleteByID(ctx context.Context, table string, id interface{}) (bool, error) {
	result, err := r.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return false, classifyError("delete from "+table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// clampLimit bounds the size of "recent N" style helpers
func clampLimit(n int) int {
	if n <= 0 {
		return models.DefaultPageSize
	}
	if n > models.MaxPageSize {
		return models.MaxPageSize
	}
	return n
}

// compactQuery collapses whitespace and truncates long queries for logging
func compactQuery(query string) string {
	const maxLength = 200
	out := make([]byte, 0, len(query))
	space := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			space = len(out) > 0
			continue
		}
		if space {
			out = append(out, ' ')
			space = false
		}
		out = append(out, c)
	}
	if len(out) > maxLength {
		return string(out[:maxLength]) + "..."
	}
	return string(out)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
