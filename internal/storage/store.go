package storage

import (
	"context"

	"github.com/pkg/errors"

	"queuewise/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStale is returned when a conditional update matched no row, because the
	// entry or queue left the expected state after it was read.
	ErrStale = errors.New("record changed concurrently")
)

type EntryCounts struct {
	QueueID uint
	Waiting int64
	Total   int64
}

// Store is the repository the service orchestrates. Entry lists are always ordered
// by position ascending.
type Store interface {
	CreateQueue(ctx context.Context, name string) (*models.Queue, error)
	ListQueues(ctx context.Context) ([]models.Queue, error)
	GetQueue(ctx context.Context, id uint) (*models.Queue, error)
	// LockQueue reads a queue and holds its row until the surrounding transaction ends.
	LockQueue(ctx context.Context, id uint) (*models.Queue, error)
	SetQueueStatus(ctx context.Context, queue *models.Queue, status models.QueueStatus) error

	EntriesForQueue(ctx context.Context, queueID uint) ([]models.QueueEntry, error)
	EntryCounts(ctx context.Context) (map[uint]EntryCounts, error)
	NextPosition(ctx context.Context, queueID uint) (int, error)
	GetEntry(ctx context.Context, id uint) (*models.QueueEntry, error)
	AddEntry(ctx context.Context, entry *models.QueueEntry) error
	// SetEntryStatus moves a WAITING entry to a terminal status.
	SetEntryStatus(ctx context.Context, entry *models.QueueEntry, status models.EntryStatus) error

	AppendEvent(ctx context.Context, event *models.QueueEvent) error
	Events(ctx context.Context, queueID uint, limit int) ([]models.QueueEvent, error)

	Transaction(ctx context.Context, fn func(tx Store) error) error
}
