package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDelete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "run-1", Entry{Speaker: "agent_a", Text: "hi"}))
	require.NoError(t, store.Delete("run-1"))

	_, err = os.Stat(filepath.Join(store.Dir(), "run-1.jsonl"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete("run-1"), "missing run is not an error")
	assert.Error(t, store.Delete("../escape"))
}

func TestStorePrune(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"old", "recent"} {
		require.NoError(t, store.Append(ctx, id, Entry{Speaker: "agent_a", Text: id}))
	}
	past := now.Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.Dir(), "old.jsonl"), past, past))

	t.Run("default retention", func(t *testing.T) {
		deleted, err := store.Prune(ctx, 0, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"old"}, deleted)

		ids, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"recent"}, ids)
	})

	t.Run("nothing old enough", func(t *testing.T) {
		deleted, err := store.Prune(ctx, time.Hour, now)
		require.NoError(t, err)
		assert.Empty(t, deleted)
	})

	t.Run("short retention", func(t *testing.T) {
		deleted, err := store.Prune(ctx, time.Hour, now.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []string{"recent"}, deleted)
	})
}
