package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fonds_backend/internal/feature/auth/domain/entity"
	"fonds_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
// TranslateError を有効にして一意制約違反をgormの共通エラーに寄せます。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{}, &SessionModel{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func testUser(email string) *entity.User {
	return &entity.User{Email: email, Username: "alice", Password: "hashed"}
}

func TestUserPostgres_Create(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := testUser("alice@example.com")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	// 同一メールアドレスは一意制約違反
	err := repo.Create(ctx, testUser("alice@example.com"))
	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("alice@example.com")))

	got, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserPostgres_FindByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := testUser("alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}
