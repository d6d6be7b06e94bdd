package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryStoreDefaults(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	assert.Equal(t, 10*time.Minute, s.gcInterval)
	assert.NotNil(t, s.data)
}

func TestMemoryStoreIncrement(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	n, _, err := s.Increment(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, _, err = s.Increment(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, _, err = s.Increment(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "keys are independent")
}

func TestMemoryStoreWindowExpires(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, resetAt, _ := s.Increment(ctx, "ip", time.Minute)
	assert.Equal(t, now.Add(time.Minute), resetAt)
	s.Increment(ctx, "ip", time.Minute)

	now = now.Add(time.Minute)
	n, _, err := s.Increment(ctx, "ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStoreSweep(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.Increment(context.Background(), "old", time.Second)

	now = now.Add(time.Minute)
	s.sweep()
	assert.Empty(t, s.data)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Increment(context.Background(), "shared", time.Minute)
		}()
	}
	wg.Wait()

	n, _, err := s.Increment(context.Background(), "shared", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), n)
}

func TestMemoryStoreCloseTwice(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestCheck(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r, err := Check(ctx, s, "client", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, r.Allowed)
		assert.Equal(t, int64(2-i), r.Remaining)
		assert.Equal(t, int64(3), r.Limit)
	}

	r, err := Check(ctx, s, "client", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.Equal(t, int64(0), r.Remaining)
}

func TestNewRedisStoreInvalidURL(t *testing.T) {
	s, err := NewRedisStore("not-a-url")
	require.Error(t, err)
	require.Nil(t, s)
	require.Contains(t, err.Error(), "invalid redis url")
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	s, err := NewRedisStore("redis://invalid-redis-host-that-does-not-exist:6379")
	require.Error(t, err)
	require.Nil(t, s)
	require.Contains(t, err.Error(), "failed to connect to Redis")
}
