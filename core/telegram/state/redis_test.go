package state_test

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnitronlab/preorder-bot/core/telegram/state"
)

func redisStore(t *testing.T) state.Store[draft] {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping().Err())

	prefix := fmt.Sprintf("test:%d:", time.Now().UnixNano())
	t.Cleanup(func() {
		keys, _ := client.Keys(prefix + "*").Result()
		if len(keys) > 0 {
			client.Del(keys...)
		}
	})
	return state.NewRedisStore[draft](client, state.RedisOptions{Prefix: prefix, TTL: time.Minute})
}

func TestRedisStoreLifecycle(t *testing.T) {
	store := redisStore(t)

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Put(1, draft{Step: "collecting", Count: 3})
	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, draft{Step: "collecting", Count: 3}, got)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Update(1, func(cur draft, ok bool) (draft, bool) {
		assert.True(t, ok)
		return cur, false
	}))
	_, ok = store.Get(1)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestRedisStoreUpdateIsAtomic(t *testing.T) {
	store := redisStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Update(9, func(cur draft, _ bool) (draft, bool) {
				cur.Count++
				return cur, true
			}))
		}()
	}
	wg.Wait()

	got, _ := store.Get(9)
	assert.Equal(t, 4, got.Count)
}
