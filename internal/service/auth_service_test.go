package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/smartblog/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(setupDB(t)), "test-secret", time.Hour)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "a@example.com", "hunter22", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.NotEqual(t, "hunter22", u.HashedPassword, "password must be stored hashed")

	token, err := svc.Login(ctx, "a@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, u.ID, resolved.ID)
}

func TestAuthDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "a@example.com", "pw-one", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@example.com", "pw-two", "Imposter")
	require.ErrorIs(t, err, ErrEmailTaken)

	// the first registration keeps working
	token, err := svc.Login(ctx, "a@example.com", "pw-one")
	require.NoError(t, err)
	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, first.ID, resolved.ID)
}

func TestAuthBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "hunter22", "Alice")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Authenticate(ctx, "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	// token signed with a different secret
	other := NewAuthService(repository.NewUserRepository(setupDB(t)), "other-secret", time.Hour)
	u, err := other.Register(ctx, "b@example.com", "pw", "Bob")
	require.NoError(t, err)
	_ = u
	token, err := other.Login(ctx, "b@example.com", "pw")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthExpiredToken(t *testing.T) {
	users := repository.NewUserRepository(setupDB(t))
	svc := NewAuthService(users, "test-secret", -time.Minute)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "pw", "Alice")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
