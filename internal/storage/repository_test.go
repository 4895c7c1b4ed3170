package storage

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"queuewise/internal/config"
	"queuewise/internal/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(config.Database{Driver: config.DriverMemory}, logrus.New())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if conn, err := db.DB(); err == nil {
			conn.Close()
		}
	})
	return NewRepository(db)
}

func TestRepository_QueueLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.CreateQueue(ctx, "Clinic A")
	require.NoError(t, err)
	assert.Equal(t, models.QueueActive, first.Status)

	second, err := repo.CreateQueue(ctx, "Clinic B")
	require.NoError(t, err)

	queues, err := repo.ListQueues(ctx)
	require.NoError(t, err)
	require.Len(t, queues, 2)
	assert.Equal(t, second.ID, queues[0].ID, "newest queue first")

	got, err := repo.GetQueue(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clinic A", got.Name)

	_, err = repo.GetQueue(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SetQueueStatus(ctx, got, models.QueuePaused))
	assert.Equal(t, models.QueuePaused, got.Status)

	reloaded, err := repo.LockQueue(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QueuePaused, reloaded.Status)

	stale := &models.Queue{Status: models.QueueActive}
	stale.ID = first.ID
	assert.ErrorIs(t, repo.SetQueueStatus(ctx, stale, models.QueuePaused), ErrStale)
}

func TestRepository_PositionsNeverReused(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	queue, err := repo.CreateQueue(ctx, "Clinic A")
	require.NoError(t, err)

	next, err := repo.NextPosition(ctx, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	for i, name := range []string{"Alice", "Bob", "Carol"} {
		pos, err := repo.NextPosition(ctx, queue.ID)
		require.NoError(t, err)
		assert.Equal(t, i+1, pos)
		require.NoError(t, repo.AddEntry(ctx, &models.QueueEntry{QueueID: queue.ID, UserName: name, Position: pos}))
	}

	entries, err := repo.EntriesForQueue(ctx, queue.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.NoError(t, repo.SetEntryStatus(ctx, &entries[2], models.EntrySkipped))
	require.NoError(t, repo.SetEntryStatus(ctx, &entries[0], models.EntryServed))

	next, err = repo.NextPosition(ctx, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, next, "terminal entries still hold their positions")

	duplicate := &models.QueueEntry{QueueID: queue.ID, UserName: "Dave", Position: 2}
	assert.Error(t, repo.AddEntry(ctx, duplicate), "position is unique within a queue")
}

func TestRepository_EntryStatusIsTerminal(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	queue, err := repo.CreateQueue(ctx, "Clinic A")
	require.NoError(t, err)
	entry := &models.QueueEntry{QueueID: queue.ID, UserName: "Alice", Position: 1}
	require.NoError(t, repo.AddEntry(ctx, entry))
	assert.Equal(t, models.EntryWaiting, entry.Status)
	assert.False(t, entry.JoinedAt.IsZero())

	require.NoError(t, repo.SetEntryStatus(ctx, entry, models.EntryServed))

	stale := &models.QueueEntry{QueueID: queue.ID}
	stale.ID = entry.ID
	assert.ErrorIs(t, repo.SetEntryStatus(ctx, stale, models.EntrySkipped), ErrStale)

	got, err := repo.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryServed, got.Status)

	_, err = repo.GetEntry(ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_EntryCounts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a, err := repo.CreateQueue(ctx, "A")
	require.NoError(t, err)
	b, err := repo.CreateQueue(ctx, "B")
	require.NoError(t, err)
	_, err = repo.CreateQueue(ctx, "Empty")
	require.NoError(t, err)

	require.NoError(t, repo.AddEntry(ctx, &models.QueueEntry{QueueID: a.ID, UserName: "Alice", Position: 1}))
	require.NoError(t, repo.AddEntry(ctx, &models.QueueEntry{QueueID: a.ID, UserName: "Bob", Position: 2, Status: models.EntryServed}))
	require.NoError(t, repo.AddEntry(ctx, &models.QueueEntry{QueueID: b.ID, UserName: "Carol", Position: 1, Status: models.EntrySkipped}))

	counts, err := repo.EntryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[a.ID].Waiting)
	assert.Equal(t, int64(2), counts[a.ID].Total)
	assert.Equal(t, int64(0), counts[b.ID].Waiting)
	assert.Equal(t, int64(1), counts[b.ID].Total)
	assert.Len(t, counts, 2)
}

func TestRepository_EventsNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	queue, err := repo.CreateQueue(ctx, "Clinic A")
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	for i, action := range []string{models.ActionJoin, models.ActionServe, models.ActionSkip} {
		require.NoError(t, repo.AppendEvent(ctx, &models.QueueEvent{
			QueueID:   queue.ID,
			Action:    action,
			Result:    models.ResultSuccess,
			Detail:    datatypes.JSON(`{"user_name":"Alice"}`),
			RequestID: "req-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := repo.Events(ctx, queue.ID, 50)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.ActionSkip, events[0].Action)
	assert.Equal(t, models.ActionJoin, events[2].Action)
	assert.JSONEq(t, `{"user_name":"Alice"}`, string(events[0].Detail))

	events, err = repo.Events(ctx, queue.ID, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = repo.Events(ctx, queue.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRepository_TransactionRollsBack(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	queue, err := repo.CreateQueue(ctx, "Clinic A")
	require.NoError(t, err)

	err = repo.Transaction(ctx, func(tx Store) error {
		if err := tx.AddEntry(ctx, &models.QueueEntry{QueueID: queue.ID, UserName: "Alice", Position: 1}); err != nil {
			return err
		}
		return ErrStale
	})
	assert.ErrorIs(t, err, ErrStale)

	entries, err := repo.EntriesForQueue(ctx, queue.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRepository_Reset(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	queue, err := repo.CreateQueue(ctx, "Clinic A")
	require.NoError(t, err)
	require.NoError(t, repo.AddEntry(ctx, &models.QueueEntry{QueueID: queue.ID, UserName: "Alice", Position: 1}))
	require.NoError(t, repo.AppendEvent(ctx, &models.QueueEvent{QueueID: queue.ID, Action: models.ActionJoin, Result: models.ResultSuccess}))

	require.NoError(t, repo.Reset(ctx))

	queues, err := repo.ListQueues(ctx)
	require.NoError(t, err)
	assert.Empty(t, queues)
}
