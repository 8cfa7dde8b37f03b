package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hirehub/internal/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// BootstrapResult describes what Initialize did
type BootstrapResult struct {
	SchemaCreated bool `json:"schema_created"`
	AdminSeeded   bool `json:"admin_seeded"`
	Statements    int  `json:"statements"`
}

// Bootstrapper creates the schema and seeds the admin credential on an empty store
type Bootstrapper struct {
	manager    *Manager
	admin      config.AdminConfig
	logger     *zap.Logger
	maxRetries int
	loadScript func() (string, error)
}

// NewBootstrapper creates a bootstrapper for the given store
func NewBootstrapper(manager *Manager, admin config.AdminConfig, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{
		manager:    manager,
		admin:      admin,
		logger:     logger,
		maxRetries: manager.config.BootstrapRetries,
		loadScript: SchemaScript,
	}
}

// Initialize is safe to call on every start. When the store holds no user
// table it applies the whole schema and the admin seed in one transaction;
// otherwise it does nothing.
func (b *Bootstrapper) Initialize(ctx context.Context) (*BootstrapResult, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(b.maxRetries)),
		ctx,
	)

	attempt := 0
	return backoff.RetryWithData(func() (*BootstrapResult, error) {
		attempt++
		result, err := b.initialize(ctx)
		if err == nil {
			return result, nil
		}
		if isBusy(err) {
			b.logger.Warn("Store busy during bootstrap, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}, policy)
}

func (b *Bootstrapper) initialize(ctx context.Context) (*BootstrapResult, error) {
	result := &BootstrapResult{}

	var tables int
	err := b.manager.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&tables)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect schema catalog: %w", err)
	}
	if tables > 0 {
		b.logger.Debug("Schema already present, skipping bootstrap", zap.Int("tables", tables))
		return result, nil
	}

	script, err := b.loadScript()
	if err != nil {
		return nil, err
	}
	statements := SplitStatements(script)
	if len(statements) == 0 {
		return nil, fmt.Errorf("schema script contains no statements")
	}

	// Hash outside the transaction; bcrypt is deliberately slow
	var passwordHash string
	if b.admin.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(b.admin.Password), b.admin.BCryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		passwordHash = string(hash)
	}

	b.logger.Info("🚀 Creating database schema", zap.Int("statements", len(statements)))

	err = b.manager.WithTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d failed: %w", i+1, err)
			}
		}

		seeded, err := b.seedAdmin(ctx, tx, passwordHash)
		if err != nil {
			return err
		}
		result.AdminSeeded = seeded
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.SchemaCreated = true
	result.Statements = len(statements)

	b.logger.Info("🎉 Database schema created",
		zap.Int("statements", result.Statements),
		zap.Bool("admin_seeded", result.AdminSeeded),
	)
	return result, nil
}

func (b *Bootstrapper) seedAdmin(ctx context.Context, tx *sql.Tx, passwordHash string) (bool, error) {
	if passwordHash == "" {
		b.logger.Warn("⚠️ No admin password configured, skipping admin seed",
			zap.String("username", b.admin.Username))
		return false, nil
	}

	var existing int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM admins WHERE username = ?", b.admin.Username,
	).Scan(&existing); err != nil {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.admin.Username, passwordHash, b.admin.Email, b.admin.Phone, now, now,
	); err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}

	b.logger.Info("✅ Admin credential seeded", zap.String("username", b.admin.Username))
	return true, nil
}

// isBusy reports whether err is the store's busy or locked condition
func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
