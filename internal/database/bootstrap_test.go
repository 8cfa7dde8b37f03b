package database

import (
	"context"
	"testing"

	"hirehub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testAdmin() config.AdminConfig {
	return config.AdminConfig{
		Username:   "admin",
		Password:   "correct horse",
		Email:      "admin@example.com",
		Phone:      "+1 555 0100",
		BCryptCost: bcrypt.MinCost,
	}
}

func tableNames(t *testing.T, m *Manager) []string {
	t.Helper()
	rows, err := m.QueryContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestInitializeIsIdempotent(t *testing.T) {
	manager, err := NewManager(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer manager.Close()
	ctx := context.Background()

	b := NewBootstrapper(manager, testAdmin(), zap.NewNop())

	first, err := b.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, first.SchemaCreated)
	assert.True(t, first.AdminSeeded)
	assert.Positive(t, first.Statements)
	tablesAfterFirst := tableNames(t, manager)

	second, err := b.Initialize(ctx)
	require.NoError(t, err)
	assert.False(t, second.SchemaCreated)
	assert.False(t, second.AdminSeeded)

	assert.Equal(t, tablesAfterFirst, tableNames(t, manager))
	assert.Subset(t, tablesAfterFirst, []string{
		"admins", "applicants", "applications", "contact_messages",
		"content_sections", "email_subscribers", "jobs",
	})

	var admins int
	require.NoError(t, manager.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&admins))
	assert.Equal(t, 1, admins)
}

func TestInitializeStoresSaltedHash(t *testing.T) {
	manager, err := NewManager(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer manager.Close()
	ctx := context.Background()

	admin := testAdmin()
	_, err = NewBootstrapper(manager, admin, zap.NewNop()).Initialize(ctx)
	require.NoError(t, err)

	var hash, email string
	require.NoError(t, manager.QueryRowContext(ctx,
		"SELECT password_hash, email FROM admins WHERE username = ?", admin.Username,
	).Scan(&hash, &email))

	assert.NotEqual(t, admin.Password, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(admin.Password)))
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.Equal(t, admin.Email, email)
}

func TestInitializeWithoutPasswordSkipsSeed(t *testing.T) {
	manager, err := NewManager(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer manager.Close()
	ctx := context.Background()

	admin := testAdmin()
	admin.Password = ""
	result, err := NewBootstrapper(manager, admin, zap.NewNop()).Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, result.SchemaCreated)
	assert.False(t, result.AdminSeeded)

	var admins int
	require.NoError(t, manager.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&admins))
	assert.Zero(t, admins)
}

func TestInitializeFailureLeavesNoPartialSchema(t *testing.T) {
	manager, err := NewManager(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer manager.Close()
	ctx := context.Background()

	b := NewBootstrapper(manager, testAdmin(), zap.NewNop())
	b.loadScript = func() (string, error) {
		return `
			CREATE TABLE first_table (id INTEGER PRIMARY KEY);
			CREATE TABLE second_table (id INTEGER PRIMARY KEY);
			CREATE TABLE broken (;
		`, nil
	}

	_, err = b.Initialize(ctx)
	require.Error(t, err)
	assert.Empty(t, tableNames(t, manager))

	// A later run with the real script succeeds from a clean slate
	b.loadScript = SchemaScript
	result, err := b.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, result.SchemaCreated)
}

func TestInitializeRollsBackWhenSeedFails(t *testing.T) {
	manager, err := NewManager(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer manager.Close()
	ctx := context.Background()

	b := NewBootstrapper(manager, testAdmin(), zap.NewNop())
	// Schema without the admins table: the seed insert must fail
	b.loadScript = func() (string, error) {
		return "CREATE TABLE jobs (id TEXT PRIMARY KEY);", nil
	}

	_, err = b.Initialize(ctx)
	require.Error(t, err)
	assert.Empty(t, tableNames(t, manager))
}
