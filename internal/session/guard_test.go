package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenWithExp(t *testing.T, exp int64) string {
	t.Helper()
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, exp)))
	return "eyJhbGciOiJIUzI1NiJ9." + payload + ".sig"
}

func seededStore(t *testing.T, token string) *MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Write(ctx, KeyToken, token))
	require.NoError(t, store.Write(ctx, KeyUsername, "admin"))
	require.NoError(t, store.Write(ctx, KeyUserRole, "ADMIN"))
	require.NoError(t, store.Write(ctx, KeyUserID, "u-1"))
	return store
}

func TestSweepExpiredTokenClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, tokenWithExp(t, time.Now().Add(-time.Second).Unix()))

	require.NoError(t, NewGuard().Sweep(ctx, store))

	for _, key := range []string{KeyToken, KeyUsername, KeyUserRole, KeyUserID} {
		val, err := store.Read(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, val, key)
	}
}

func TestSweepValidTokenKeepsSession(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, tokenWithExp(t, time.Now().Add(time.Hour).Unix()))

	require.NoError(t, NewGuard().Sweep(ctx, store))

	token, err := store.Read(ctx, KeyToken)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	role, err := store.Read(ctx, KeyUserRole)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", role)
}

func TestSweepMalformedTokenClearsSession(t *testing.T) {
	ctx := context.Background()
	for _, token := range []string{
		"not-a-jwt",
		"a.b",
		"a.!!!not-base64!!!.c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c",
	} {
		store := seededStore(t, token)
		require.NoError(t, NewGuard().Sweep(ctx, store))
		val, err := store.Read(ctx, KeyToken)
		require.NoError(t, err)
		assert.Empty(t, val, token)
	}
}

func TestSweepNoTokenIsIdempotentNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	guard := NewGuard()

	require.NoError(t, guard.Sweep(ctx, store))
	require.NoError(t, guard.Sweep(ctx, store))

	val, err := store.Read(ctx, KeyToken)
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestSweepPaddedBase64Segment(t *testing.T) {
	ctx := context.Background()
	payload := base64.URLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, time.Now().Add(time.Hour).Unix())))
	store := seededStore(t, "h."+payload+".s")

	require.NoError(t, NewGuard().Sweep(ctx, store))

	token, err := store.Read(ctx, KeyToken)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
