package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

func TestSyncRunStore_CreateAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	started := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	createTestRun(t, store, "run-1", started)

	got, err := store.SyncRunStore().Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, "export-run-1.json", got.SourceRef)
	assert.Equal(t, domain.RunStatusRunning, got.Status)
	assert.Equal(t, started, got.StartedAt)
	assert.Nil(t, got.FinishedAt)
	assert.Empty(t, got.ErrorMessage)
	assert.Equal(t, domain.RunCounters{}, got.Counters)
}

func TestSyncRunStore_Create_Pending(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SyncRunStore().Create(ctx, domain.NewSyncRun("run-p", "x.json")))

	got, err := store.SyncRunStore().Get(ctx, "run-p")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusPending, got.Status)
	assert.True(t, got.StartedAt.IsZero())
}

func TestSyncRunStore_Create_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	createTestRun(t, store, "run-1", time.Now().UTC())
	err := store.SyncRunStore().Create(context.Background(), domain.NewSyncRun("run-1", "other.json"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncRunStore_Create_Invalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.ErrorIs(t, store.SyncRunStore().Create(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SyncRunStore().Create(context.Background(), &domain.SyncRun{}), domain.ErrInvalidInput)
}

func TestSyncRunStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.SyncRunStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncRunStore_Update_Lifecycle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	runs := store.SyncRunStore()

	started := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	run := createTestRun(t, store, "run-1", started)

	run.Counters = domain.RunCounters{Total: 3, New: 2, Errors: 1}
	require.NoError(t, runs.Update(ctx, run))

	require.NoError(t, run.Fail(started.Add(time.Minute), errors.New("store unavailable")))
	run.Counters.Total = 4
	run.Counters.Errors = 2
	require.NoError(t, runs.Update(ctx, run))

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, got.Status)
	assert.Equal(t, "store unavailable", got.ErrorMessage)
	assert.Equal(t, domain.RunCounters{Total: 4, New: 2, Errors: 2}, got.Counters)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, started.Add(time.Minute), *got.FinishedAt)
	assert.Equal(t, time.Minute, got.Duration())
}

func TestSyncRunStore_Update_Finalized(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	runs := store.SyncRunStore()

	started := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	run := createTestRun(t, store, "run-1", started)
	require.NoError(t, run.Complete(started.Add(time.Second)))
	require.NoError(t, runs.Update(ctx, run))

	run.Counters.Total = 99
	err := runs.Update(ctx, run)
	assert.ErrorIs(t, err, domain.ErrRunFinalized)

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Counters.Total)
}

func TestSyncRunStore_Update_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SyncRunStore().Update(context.Background(), domain.NewSyncRun("missing", "x.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncRunStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	runs := store.SyncRunStore()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	createTestRun(t, store, "old", t0)
	createTestRun(t, store, "new", t0.Add(2*time.Hour))
	createTestRun(t, store, "tie-a", t0.Add(time.Hour))
	createTestRun(t, store, "tie-b", t0.Add(time.Hour))

	all, err := runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"new", "tie-b", "tie-a", "old"}, ids)

	limited, err := runs.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "new", limited[0].ID)
}

func TestSyncRunStore_List_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	runs, err := store.SyncRunStore().List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
