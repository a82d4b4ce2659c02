package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_EmptyUntilSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	last, err := store.LastMessageID(ctx)
	require.NoError(t, err)
	assert.Empty(t, last)

	require.NoError(t, store.SetLastMessageID(ctx, "42"))

	last, err = store.LastMessageID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", last)
}

func TestMemoryStore_LatestWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetLastMessageID(ctx, "41"))
	require.NoError(t, store.SetLastMessageID(ctx, "42"))

	last, err := store.LastMessageID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", last)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.SetLastMessageID(ctx, "42")
			_, _ = store.LastMessageID(ctx)
		}()
	}
	wg.Wait()

	last, err := store.LastMessageID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", last)
}
