package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000000"

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

func TestNewSessionStoreValidation(t *testing.T) {
	_, err := NewSessionStore("zz")
	assert.Error(t, err)

	_, err = NewSessionStore("0011")
	assert.Error(t, err)

	store, err := NewSessionStore(testKeyHex)
	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestSessionStoreEncryptDecrypt(t *testing.T) {
	store, err := NewSessionStore(testKeyHex)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte(`{"x":1}`))
	require.NoError(t, err)
	assert.NotEmpty(t, enc)

	dec, err := store.decrypt(enc)
	require.NoError(t, err)
	assert.Contains(t, string(dec), `"x":1`)

	_, err = store.decrypt("00") // too short ciphertext
	assert.Error(t, err)

	_, err = store.decrypt("zz-not-hex")
	assert.Error(t, err)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	setupMiniredis(t)

	store, err := NewSessionStore(testKeyHex)
	require.NoError(t, err)

	ctx := context.Background()
	sessionID := uuid.New()
	expiresAt := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	data := &SessionData{
		SessionID:    sessionID,
		AccessToken:  "acc",
		RefreshToken: "ref",
		ExpiresAt:    expiresAt,
	}

	require.NoError(t, store.CreateSession(ctx, "tok-1", data, time.Hour))

	got, err := store.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, sessionID, got.SessionID)
	assert.Equal(t, "acc", got.AccessToken)
	assert.Equal(t, "ref", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(expiresAt))

	require.NoError(t, store.DeleteSession(ctx, "tok-1"))
	_, err = store.GetSession(ctx, "tok-1")
	assert.Error(t, err)
}

func TestSessionStoreExpiry(t *testing.T) {
	mr := setupMiniredis(t)

	store, err := NewSessionStore(testKeyHex)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.CreateSession(ctx, "tok-2", &SessionData{AccessToken: "a"}, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err = store.GetSession(ctx, "tok-2")
	assert.Error(t, err)
}
