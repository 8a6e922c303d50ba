package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadEmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	expiry := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &domain.Credentials{
		UserID:       "12345",
		Login:        "user@example.com",
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}))

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12345", creds.UserID)
	assert.Equal(t, "user@example.com", creds.Login)
	assert.Equal(t, "access", creds.AccessToken)
	assert.Equal(t, "refresh", creds.RefreshToken)
	assert.True(t, expiry.Equal(creds.Expiry))
	assert.False(t, creds.UpdatedAt.IsZero())
}

func TestSaveReplacesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Credentials{
		UserID: "12345", AccessToken: "old", RefreshToken: "old-refresh",
	}))
	require.NoError(t, store.Save(ctx, &domain.Credentials{
		UserID: "12345", AccessToken: "new", RefreshToken: "new-refresh",
	}))

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", creds.AccessToken)
	assert.Equal(t, "new-refresh", creds.RefreshToken)
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), &domain.Credentials{UserID: "u"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Credentials{AccessToken: "tok"}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Clearing an already empty store is fine.
	assert.NoError(t, store.Clear(ctx))
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &domain.Credentials{
		UserID: "u1", AccessToken: "tok", RefreshToken: "ref",
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	creds, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", creds.UserID)
	assert.Equal(t, "tok", creds.AccessToken)
}

func TestZeroExpiryRoundTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Credentials{AccessToken: "tok"}))

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Expiry.IsZero())
}
