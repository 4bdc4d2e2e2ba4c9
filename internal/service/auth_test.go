package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/testutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewAuthService(
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
		config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
	)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter2hunter2", user.Password, "password must be stored hashed")

	got, pair, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLoginFailuresAreVague(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown account and wrong password must be indistinguishable")
}

func TestDuplicateRegistrationFails(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestRefreshRotation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// The rotated-out token is dead.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The replacement still works.
	_, err = svc.Refresh(ctx, fresh.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "old-password-1")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong-old", "new-password-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-password-1", "new-password-1"))

	_, _, err = svc.Login(ctx, "alice@example.com", "old-password-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "alice@example.com", "new-password-1")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	newName := "alice-renamed"
	updated, err := svc.UpdateProfile(ctx, user.ID, &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
}
