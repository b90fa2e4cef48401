package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	auth "github.com/teachmeit/go-auth"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL UNIQUE,
    phone_number TEXT,
    password_hash TEXT,
    is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
    email_verify_code TEXT,
    password_reset_code TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP,
    deleted_at TIMESTAMP
);`

func setupUsersRepo(t *testing.T) (auth.Users, *bun.DB) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return auth.NewUsersRepository(bunDB), bunDB
}

func strPtr(s string) *string { return &s }

func TestUsersRepositoryRegisterAndLookup(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	saved, err := repo.Register(ctx, &auth.User{
		FirstName:       "Pepe",
		LastName:        "Rone",
		Email:           "pepe.rone@example.com",
		PasswordHash:    "hash",
		EmailVerifyCode: strPtr("123456"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	exists, err := repo.Exists(ctx, "pepe.rone@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	found, err := repo.GetByEmail(ctx, "pepe.rone@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	require.NotNil(t, found.EmailVerifyCode)
	assert.Equal(t, "123456", *found.EmailVerifyCode)
	assert.False(t, found.EmailVerified)
}

func TestUsersRepositoryGetByEmailNotFound(t *testing.T) {
	repo, _ := setupUsersRepo(t)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.Error(t, err)
}

func TestUsersRepositorySaveClearsCodes(t *testing.T) {
	repo, bunDB := setupUsersRepo(t)
	ctx := context.Background()

	user, err := repo.Register(ctx, &auth.User{
		FirstName:       "Pepe",
		LastName:        "Rone",
		Email:           "pepe.rone@example.com",
		PasswordHash:    "hash",
		EmailVerifyCode: strPtr("123456"),
	})
	require.NoError(t, err)

	user.EmailVerified = true
	user.EmailVerifyCode = nil

	_, err = repo.Save(ctx, user)
	require.NoError(t, err)

	found, err := repo.GetByEmail(ctx, "pepe.rone@example.com")
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)
	assert.Nil(t, found.EmailVerifyCode)

	// the column must be NULL, not an empty string
	var raw sql.NullString
	err = bunDB.QueryRow("SELECT email_verify_code FROM users WHERE email = ?", "pepe.rone@example.com").Scan(&raw)
	require.NoError(t, err)
	assert.False(t, raw.Valid)
}

func TestUsersRepositorySaveUpsertsByEmail(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	// no ID set: Save should create
	created, err := repo.Save(ctx, &auth.User{
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        "pepe.rone@example.com",
		PasswordHash: "hash-one",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// no ID set again: Save should adopt the existing record's ID
	updated, err := repo.Save(ctx, &auth.User{
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        "pepe.rone@example.com",
		PasswordHash: "hash-two",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	found, err := repo.GetByEmail(ctx, "pepe.rone@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-two", found.PasswordHash)
}

func TestRepositoryManager(t *testing.T) {
	_, bunDB := setupUsersRepo(t)

	manager := auth.NewRepositoryManager(bunDB)
	require.NoError(t, manager.Validate())

	ctx := context.Background()
	err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := manager.Users().RegisterTx(ctx, tx, &auth.User{
			FirstName:    "Tx",
			LastName:     "User",
			Email:        "tx.user@example.com",
			PasswordHash: "hash",
		})
		return err
	})
	require.NoError(t, err)

	exists, err := manager.Users().Exists(ctx, "tx.user@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}
