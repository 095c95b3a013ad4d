package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCounterStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := NewRedisCounterStore(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))

	_, found, err := s.Get(ctx, "rate:u1:1")
	require.NoError(t, err)
	assert.False(t, found)

	set, err := s.SetNX(ctx, "rate:u1:1", 1, 90*time.Second)
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, 90*time.Second, mr.TTL("rate:u1:1"))

	set, err = s.SetNX(ctx, "rate:u1:1", 1, 90*time.Second)
	require.NoError(t, err)
	assert.False(t, set)

	n, err := s.Incr(ctx, "rate:u1:1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, found, err = s.Get(ctx, "rate:u1:1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 2, n)

	mr.FastForward(91 * time.Second)
	_, found, err = s.Get(ctx, "rate:u1:1")
	require.NoError(t, err)
	assert.False(t, found)

	n, err = s.Incr(ctx, "rate:u1:2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, s.Expire(ctx, "rate:u1:2", 90*time.Second))
	assert.Equal(t, 90*time.Second, mr.TTL("rate:u1:2"))
}

func TestRedisCounterStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisCounterStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.Close()

	_, err := s.Incr(context.Background(), "k")
	require.Error(t, err)
}

func TestNewRedisCounterStoreBadURL(t *testing.T) {
	_, err := NewRedisCounterStore(context.Background(), "not a url")
	require.Error(t, err)
}
