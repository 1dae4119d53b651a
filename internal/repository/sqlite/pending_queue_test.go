package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/attendance"
	"github.com/mustafayusufaksoy/camlica360/internal/pkg/database"
)

func newTestQueue(t *testing.T) (*PendingQueueRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.db")
	db, err := database.NewSQLiteDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPendingQueueRepository(db), path
}

func pendingLog(id, workplaceID string) attendance.PendingLog {
	return attendance.PendingLog{
		ID: id,
		Request: attendance.CreateLogRequest{
			PersonnelID:         "personnel-1",
			WorkplaceLocationID: workplaceID,
			EventType:           attendance.EventCheckIn,
			Timestamp:           time.Now().UTC().Truncate(time.Millisecond),
			Latitude:            41.0213,
			Longitude:           29.0587,
			IsManual:            true,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestPendingQueue_EnqueueAndList_FIFO(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := newTestQueue(t)

	require.NoError(t, repo.Enqueue(ctx, pendingLog("a", "wp-1")))
	require.NoError(t, repo.Enqueue(ctx, pendingLog("b", "wp-2")))
	require.NoError(t, repo.Enqueue(ctx, pendingLog("c", "wp-3")))

	logs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "a", logs[0].ID)
	assert.Equal(t, "b", logs[1].ID)
	assert.Equal(t, "c", logs[2].ID)
}

func TestPendingQueue_Remove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := newTestQueue(t)

	require.NoError(t, repo.Enqueue(ctx, pendingLog("a", "wp-1")))
	require.NoError(t, repo.Enqueue(ctx, pendingLog("b", "wp-2")))

	require.NoError(t, repo.Remove(ctx, "a"))

	logs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "b", logs[0].ID)

	// Removing an absent id is not an error.
	assert.NoError(t, repo.Remove(ctx, "missing"))
}

func TestPendingQueue_Count(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := newTestQueue(t)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, repo.Enqueue(ctx, pendingLog("a", "wp-1")))
	require.NoError(t, repo.Enqueue(ctx, pendingLog("b", "wp-2")))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPendingQueue_SurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "agent.db")
	db, err := database.NewSQLiteDB(path)
	require.NoError(t, err)
	repo := NewPendingQueueRepository(db)

	want := []attendance.PendingLog{
		pendingLog("a", "wp-1"),
		pendingLog("b", "wp-2"),
	}
	for _, log := range want {
		require.NoError(t, repo.Enqueue(ctx, log))
	}
	require.NoError(t, db.Close())

	// Reopen as if the process restarted.
	db, err = database.NewSQLiteDB(path)
	require.NoError(t, err)
	defer db.Close()
	repo = NewPendingQueueRepository(db)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Request, got[i].Request)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestPendingQueue_DuplicateIDRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := newTestQueue(t)

	require.NoError(t, repo.Enqueue(ctx, pendingLog("a", "wp-1")))
	assert.Error(t, repo.Enqueue(ctx, pendingLog("a", "wp-1")))
}
