package background

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTaskStoreLifecycle(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	result := &TaskResult{
		ProcessID: "p-1",
		Type:      TaskTypeHarvest,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
	}

	require.NoError(t, store.Store(ctx, result))

	got, err := store.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusAccepted, got.Status)

	got.Status = TaskStatusSuccess
	require.NoError(t, store.Update(ctx, got))

	updated, err := store.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusSuccess, updated.Status)

	require.NoError(t, store.Delete(ctx, "p-1"))

	_, err = store.Get(ctx, "p-1")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestInMemoryTaskStoreUnknownID(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = store.Update(ctx, &TaskResult{ProcessID: "missing"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = store.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestInMemoryTaskStoreCleanup(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := &TaskResult{ProcessID: "recent", CreatedAt: time.Now()}
	require.NoError(t, store.Store(ctx, old))
	require.NoError(t, store.Store(ctx, recent))

	require.NoError(t, store.Cleanup(ctx, 24*time.Hour))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = store.Get(ctx, "recent")
	assert.NoError(t, err)
}

func TestInMemoryTaskStoreList(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, &TaskResult{ProcessID: "a"}))
	require.NoError(t, store.Store(ctx, &TaskResult{ProcessID: "b"}))

	results, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
