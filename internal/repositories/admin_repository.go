// file: internal/repositories/admin_repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hirehub/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminColumns = `id, username, password_hash, email, phone, last_login_at, created_at, updated_at`

// adminRepository implements AdminRepository; passwords only ever leave
// this type as bcrypt hashes
type adminRepository struct {
	*BaseRepository
	bcryptCost int
}

// NewAdminRepository creates a new admin repository hashing with cost
func NewAdminRepository(base *BaseRepository, cost int) AdminRepository {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &adminRepository{BaseRepository: base, bcryptCost: cost}
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findOne(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *adminRepository) findOne(ctx context.Context, predicate string, args ...interface{}) (*models.Admin, error) {
	admin, err := queryOne(ctx, r.BaseRepository,
		"SELECT "+adminColumns+" FROM admins WHERE "+predicate, args, scanAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// Create stores a new admin; a taken username yields ErrDuplicate
func (r *adminRepository) Create(ctx context.Context, username, password, email, phone string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	// Hash before taking the connection; bcrypt is slow on purpose
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	ts := utcNow()
	result, err := r.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		username, string(hash), email, phone, ts, ts,
	)
	if err != nil {
		return nil, classifyError("create admin", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read admin id: %w", err)
	}

	r.logger.Info("Admin created", zap.String("username", username))
	return r.findOne(ctx, "id = ?", id)
}

// RecordLogin stamps last_login_at
func (r *adminRepository) RecordLogin(ctx context.Context, id int64) error {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	ts := utcNow()
	if _, err := r.ExecContext(ctx,
		"UPDATE admins SET last_login_at = ?, updated_at = ? WHERE id = ?", ts, ts, id,
	); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// Authenticate checks password against the stored hash. Unknown usernames
// and wrong passwords both return (nil, nil).
func (r *adminRepository) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := r.FindByUsername(ctx, username)
	if err != nil || admin == nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		r.logger.Warn("Admin authentication failed", zap.String("username", admin.Username))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	return admin, nil
}

func scanAdmin(row rowScanner) (*models.Admin, error) {
	var a models.Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.Phone, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
