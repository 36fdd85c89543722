package flash

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	msgs, err := s.Pop(ctx, "user:1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, s.Add(ctx, "user:1", "first"))
	require.NoError(t, s.Add(ctx, "user:1", "second"))
	require.NoError(t, s.Add(ctx, "user:2", "other"))

	msgs, err = s.Pop(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, msgs)

	msgs, err = s.Pop(ctx, "user:1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = s.Pop(ctx, "user:2")
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, msgs)
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStore(rdb)
	exercise(t, s)

	require.NoError(t, s.Add(context.Background(), "user:3", "expiring"))
	assert.Greater(t, mr.TTL("flash:user:3"), time.Duration(0))
	mr.FastForward(DefaultTTL + 1)
	assert.False(t, mr.Exists("flash:user:3"))
}
