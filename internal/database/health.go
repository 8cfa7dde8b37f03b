package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// HealthStatus represents the current health status of the database
type HealthStatus struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	JournalMode  string        `json:"journal_mode,omitempty"`
	ForeignKeys  bool          `json:"foreign_keys"`
	Tables       int           `json:"tables"`
	Errors       []string      `json:"errors,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// checkHealth pings the store and reads back the connection pragmas.
// Connectivity failures make the store unhealthy; a lost pragma only degrades it.
func checkHealth(ctx context.Context, m *Manager) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		Status:    StatusHealthy,
		Timestamp: start,
	}

	if err := m.DB().PingContext(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, fmt.Sprintf("ping failed: %v", err))
		status.ResponseTime = time.Since(start)
		return status
	}

	var foreignKeys int
	if err := m.DB().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("foreign_keys pragma: %v", err))
	}
	status.ForeignKeys = foreignKeys == 1

	if err := m.DB().QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&status.JournalMode); err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("journal_mode pragma: %v", err))
	}

	if err := m.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&status.Tables); err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("catalog read: %v", err))
	}

	if len(status.Errors) > 0 || !status.ForeignKeys || !strings.EqualFold(status.JournalMode, "wal") {
		status.Status = StatusDegraded
	}

	status.ResponseTime = time.Since(start)
	return status
}
