package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnitronlab/preorder-bot/core/telegram/state"
)

type draft struct {
	Step  state.State
	Count int
}

func TestMemoryStoreLifecycle(t *testing.T) {
	store := state.NewMemoryStore[draft]()

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Put(1, draft{Step: "collecting"})
	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, state.State("collecting"), got.Step)
	assert.Equal(t, 1, store.Len())

	store.Delete(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestMemoryStoreUpdateCreatesAndDeletes(t *testing.T) {
	store := state.NewMemoryStore[draft]()

	require.NoError(t, store.Update(5, func(cur draft, ok bool) (draft, bool) {
		assert.False(t, ok)
		return draft{Step: "first"}, true
	}))
	got, ok := store.Get(5)
	require.True(t, ok)
	assert.Equal(t, state.State("first"), got.Step)

	require.NoError(t, store.Update(5, func(cur draft, ok bool) (draft, bool) {
		assert.True(t, ok)
		return cur, false
	}))
	_, ok = store.Get(5)
	assert.False(t, ok)
}

func TestMemoryStoreValuesAreCopies(t *testing.T) {
	store := state.NewMemoryStore[draft]()
	store.Put(2, draft{Count: 1})

	got, _ := store.Get(2)
	got.Count = 99

	again, _ := store.Get(2)
	assert.Equal(t, 1, again.Count)
}

func TestMemoryStoreUpdateIsAtomic(t *testing.T) {
	store := state.NewMemoryStore[draft]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
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
	assert.Equal(t, 50, got.Count)
}
