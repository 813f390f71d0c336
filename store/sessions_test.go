package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activeflow/models"
)

func TestMemorySessionsLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessions()

	require.NoError(t, s.Save(ctx, models.Session{
		UserID:    "u1",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}))

	ok, err := s.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Revoke(ctx, "tok"))
	ok, err = s.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessionsExpire(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessions()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, models.Session{UserID: "u1", Token: "tok", ExpiresAt: now.Add(time.Minute).Unix()}))

	now = now.Add(2 * time.Minute)
	ok, err := s.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newRedisSessions(t *testing.T) (*RedisSessions, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessions(client), mr
}

func TestRedisSessionsLifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisSessions(t)

	require.NoError(t, s.Save(ctx, models.Session{
		UserID:    "u1",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}))

	stored, err := mr.Get(sessionKeyPrefix + "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored)

	ttl := mr.TTL(sessionKeyPrefix + "tok")
	assert.Greater(t, ttl, 58*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	ok, err := s.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Revoke(ctx, "tok"))
	ok, err = s.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionsExpireWithToken(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisSessions(t)

	require.NoError(t, s.Save(ctx, models.Session{
		UserID:    "u1",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}))

	mr.FastForward(61 * time.Minute)
	ok, err := s.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionsSkipExpiredSave(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisSessions(t)

	require.NoError(t, s.Save(ctx, models.Session{
		UserID:    "u1",
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}))

	assert.False(t, mr.Exists(sessionKeyPrefix+"stale"))
	ok, err := s.Exists(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionsSurfaceConnectionErrors(t *testing.T) {
	s, mr := newRedisSessions(t)
	mr.Close()

	_, err := s.Exists(context.Background(), "tok")
	assert.Error(t, err)
}
