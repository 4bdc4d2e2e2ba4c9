package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/spendwise/internal/testutil"
)

func TestTokenRevokeAndCheck(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	require.NoError(t, repo.Revoke(ctx, "jti-1", "user-a", expires))

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Revoking twice is a no-op.
	require.NoError(t, repo.Revoke(ctx, "jti-1", "user-a", expires))
}

func TestTokenPurgeExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "jti-dead", "user-a", time.Now().Add(-time.Minute)))
	require.NoError(t, repo.Revoke(ctx, "jti-live", "user-a", time.Now().Add(time.Hour)))

	require.NoError(t, repo.PurgeExpired(ctx))

	revoked, err := repo.IsRevoked(ctx, "jti-dead")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
