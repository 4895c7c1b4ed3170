package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"queuewise/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) CreateQueue(ctx context.Context, name string) (*models.Queue, error) {
	queue := models.Queue{Name: name, Status: models.QueueActive}
	if err := r.db.WithContext(ctx).Create(&queue).Error; err != nil {
		return nil, errors.Wrap(err, "storage : create queue")
	}
	return &queue, nil
}

// ListQueues returns every queue, newest first.
func (r *Repository) ListQueues(ctx context.Context) ([]models.Queue, error) {
	var queues []models.Queue
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&queues).Error
	return queues, errors.Wrap(err, "storage : list queues")
}

func (r *Repository) GetQueue(ctx context.Context, id uint) (*models.Queue, error) {
	var queue models.Queue
	if err := r.db.WithContext(ctx).First(&queue, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &queue, nil
}

func (r *Repository) LockQueue(ctx context.Context, id uint) (*models.Queue, error) {
	query := r.db.WithContext(ctx)
	// sqlite serialises writers on its own and has no row locks.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var queue models.Queue
	if err := query.First(&queue, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &queue, nil
}

func (r *Repository) SetQueueStatus(ctx context.Context, queue *models.Queue, status models.QueueStatus) error {
	res := r.db.WithContext(ctx).Model(queue).
		Where("status = ?", queue.Status).
		Update("status", status)
	if res.Error != nil {
		return errors.Wrap(res.Error, "storage : set queue status")
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	queue.Status = status
	return nil
}

func (r *Repository) EntriesForQueue(ctx context.Context, queueID uint) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := r.db.WithContext(ctx).
		Where("queue_id = ?", queueID).
		Order("position ASC").
		Find(&entries).Error
	return entries, errors.Wrap(err, "storage : entries for queue")
}

// EntryCounts aggregates live waiting and total entry counts per queue.
func (r *Repository) EntryCounts(ctx context.Context) (map[uint]EntryCounts, error) {
	var rows []EntryCounts
	err := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Select("queue_id, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS waiting, COUNT(*) AS total", models.EntryWaiting).
		Group("queue_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "storage : entry counts")
	}

	counts := make(map[uint]EntryCounts, len(rows))
	for _, row := range rows {
		counts[row.QueueID] = row
	}
	return counts, nil
}

// NextPosition is max(position)+1 over every entry ever created in the queue, so a
// position is never handed out twice.
func (r *Repository) NextPosition(ctx context.Context, queueID uint) (int, error) {
	var maxPosition int
	row := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("queue_id = ?", queueID).
		Select("COALESCE(MAX(position), 0)").
		Row()
	if err := row.Scan(&maxPosition); err != nil {
		return 0, errors.Wrap(err, "storage : next position")
	}
	return maxPosition + 1, nil
}

func (r *Repository) GetEntry(ctx context.Context, id uint) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *Repository) AddEntry(ctx context.Context, entry *models.QueueEntry) error {
	if entry.Status == "" {
		entry.Status = models.EntryWaiting
	}
	if entry.JoinedAt.IsZero() {
		entry.JoinedAt = time.Now().UTC()
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(entry).Error, "storage : add entry")
}

func (r *Repository) SetEntryStatus(ctx context.Context, entry *models.QueueEntry, status models.EntryStatus) error {
	res := r.db.WithContext(ctx).Model(entry).
		Where("status = ?", models.EntryWaiting).
		Update("status", status)
	if res.Error != nil {
		return errors.Wrap(res.Error, "storage : set entry status")
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	entry.Status = status
	return nil
}

func (r *Repository) AppendEvent(ctx context.Context, event *models.QueueEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(event).Error, "storage : append event")
}

// Events returns up to limit events of a queue, newest first.
func (r *Repository) Events(ctx context.Context, queueID uint, limit int) ([]models.QueueEvent, error) {
	events := []models.QueueEvent{}
	if limit <= 0 {
		return events, nil
	}
	err := r.db.WithContext(ctx).
		Where("queue_id = ?", queueID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, errors.Wrap(err, "storage : events")
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Reset wipes every table. Used by the seed command.
func (r *Repository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.QueueEvent{}, &models.QueueEntry{}, &models.Queue{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
				return errors.Wrap(err, "storage : reset")
			}
		}
		return nil
	})
}

var _ Store = (*Repository)(nil)
