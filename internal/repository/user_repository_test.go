package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	repo := NewUserRepository(setupDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, "a@example.com", "hash", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	byEmail, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", byID.FullName)
}

func TestUserRepositoryEmailIsCaseSensitive(t *testing.T) {
	repo := NewUserRepository(setupDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "Alice@example.com", "hash", "Alice")
	require.NoError(t, err)

	_, err = repo.GetByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "a@example.com", "hash", "Alice")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "a@example.com", "hash2", "Imposter")
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepositoryMissing(t *testing.T) {
	repo := NewUserRepository(setupDB(t))
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByID(ctx, "no-such-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}
