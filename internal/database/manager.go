package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hirehub/internal/config"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Executor is the query surface shared by *Manager and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Manager owns the single handle to the embedded store
type Manager struct {
	db      *sql.DB
	path    string
	logger  *zap.Logger
	metrics *Metrics
	config  config.DatabaseConfig
	mu      sync.RWMutex
	closed  bool
}

// NewManager opens the store file, creating its parent directory, and applies
// foreign key enforcement and write-ahead logging to the connection.
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	if cfg == nil || strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	logger.Info("🔧 Opening database", zap.String("path", cfg.Path))

	db, err := sql.Open("sqlite", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// One connection: the store serialises writers and every pragma applies to it
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	manager := &Manager{
		db:      db,
		path:    cfg.Path,
		logger:  logger,
		config:  *cfg,
		metrics: NewMetrics(cfg.SlowQueryThreshold),
	}

	if err := manager.verifyPragmas(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("✅ Database opened",
		zap.String("path", cfg.Path),
		zap.Duration("busy_timeout", cfg.BusyTimeout),
		zap.Duration("query_timeout", cfg.QueryTimeout),
	)

	return manager, nil
}

// buildDSN encodes the connection pragmas so they run on every new connection
func buildDSN(cfg *config.DatabaseConfig) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	params.Add("_pragma", "synchronous(NORMAL)")
	// Store times in the SQLite text format so they sort and compare as strings
	params.Set("_time_format", "sqlite")

	return "file:" + cfg.Path + "?" + params.Encode()
}

func (m *Manager) verifyPragmas(ctx context.Context) error {
	var foreignKeys int
	if err := m.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		return fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if foreignKeys != 1 {
		return fmt.Errorf("foreign key enforcement could not be enabled")
	}

	var journalMode string
	if err := m.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to read journal_mode pragma: %w", err)
	}
	if !strings.EqualFold(journalMode, "wal") {
		m.logger.Warn("⚠️ Write-ahead logging not active", zap.String("journal_mode", journalMode))
	}
	return nil
}

// DB returns the underlying database handle
func (m *Manager) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Path returns the store file path
func (m *Manager) Path() string {
	return m.path
}

// QueryTimeout is the per-operation deadline applied by repositories; zero disables it
func (m *Manager) QueryTimeout() time.Duration {
	return m.config.QueryTimeout
}

// SlowQueryThreshold is the duration above which statements are logged as slow
func (m *Manager) SlowQueryThreshold() time.Duration {
	return m.metrics.slowQueryThreshold
}

// ExecContext executes a statement with metrics
func (m *Manager) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := m.DB().ExecContext(ctx, query, args...)
	m.record("exec", query, start, err)
	return result, err
}

// QueryContext executes a query with metrics
func (m *Manager) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := m.DB().QueryContext(ctx, query, args...)
	m.record("query", query, start, err)
	return rows, err
}

// QueryRowContext executes a single-row query with metrics
func (m *Manager) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := m.DB().QueryRowContext(ctx, query, args...)
	m.record("query_row", query, start, row.Err())
	return row
}

// BeginTx starts a new transaction with context
func (m *Manager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := m.DB().BeginTx(ctx, opts)
	m.metrics.RecordQuery("begin_tx", time.Since(start), err)
	if err != nil {
		m.logger.Error("Failed to begin transaction", zap.Error(err))
	}
	return tx, err
}

// WithTransaction runs fn inside one transaction. It commits when fn returns
// nil and rolls back when fn returns an error or panics.
func (m *Manager) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := m.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Health returns the current health status
func (m *Manager) Health(ctx context.Context) *HealthStatus {
	return checkHealth(ctx, m)
}

// Metrics returns current database metrics
func (m *Manager) Metrics() *MetricsSnapshot {
	return m.metrics.Snapshot(m.Stats())
}

// Stats returns database statistics
func (m *Manager) Stats() sql.DBStats {
	return m.DB().Stats()
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.logger.Info("Closing database connection", zap.String("path", m.path))
	return m.db.Close()
}

func (m *Manager) record(kind, query string, start time.Time, err error) {
	duration := time.Since(start)
	m.metrics.RecordQuery(kind, duration, err)

	if err != nil && err != sql.ErrNoRows {
		m.logger.Error("Query execution failed",
			zap.String("type", kind),
			zap.Error(err),
			zap.String("query", truncateQuery(query)),
		)
		return
	}
	if m.metrics.IsSlow(duration) {
		m.logger.Warn("Slow query detected",
			zap.String("type", kind),
			zap.Duration("duration", duration),
			zap.String("query", truncateQuery(query)),
		)
	}
}

// truncateQuery truncates long queries for logging
func truncateQuery(query string) string {
	const maxLength = 200
	query = strings.Join(strings.Fields(query), " ")
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}
