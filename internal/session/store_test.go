package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewRedisStore(client, "sess", []byte("test-secret"), time.Hour)
}

func TestRedisStore_CreateAndResolve(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	cookie, err := store.Create(ctx, Session{Address: "0xabc", ProfileID: "0x01", AccessToken: "jwt"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: cookie})

	s, err := store.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", s.Address)
	assert.Equal(t, "0x01", s.ProfileID)
	assert.Equal(t, "jwt", s.AccessToken)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestRedisStore_SetsTTL(t *testing.T) {
	mr, store := setupTestStore(t)
	cookie, err := store.Create(context.Background(), Session{Address: "0xabc"})
	require.NoError(t, err)

	s, err := store.Load(context.Background(), cookie)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+s.ID))

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(context.Background(), cookie)
	assert.True(t, errors.Is(err, ErrNoSession), "expected ErrNoSession after expiry, got %v", err)
}

func TestRedisStore_ResolveWithoutCookie(t *testing.T) {
	_, store := setupTestStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := store.Resolve(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_ResolveForgedCookie(t *testing.T) {
	_, store := setupTestStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "forged.value"})

	_, err := store.Resolve(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_CreateRequiresAddress(t *testing.T) {
	_, store := setupTestStore(t)
	_, err := store.Create(context.Background(), Session{})
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), &Session{Address: "0xabc"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "0xabc", s.Address)

	_, ok = FromContext(WithSession(context.Background(), nil))
	assert.False(t, ok)
}
