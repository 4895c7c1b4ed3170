// Package service sequences store reads, rule checks, store writes and event
// recording for every queue use case.
//
// Mutating operations run under a per-queue lock and inside a store transaction;
// their dry-run twins walk the same plan functions against plain reads and never
// write an entry or a queue.
package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"queuewise/internal/explain"
	"queuewise/internal/lock"
	"queuewise/internal/models"
	"queuewise/internal/rules"
	"queuewise/internal/storage"
)

type eventRecorder interface {
	Success(ctx context.Context, queueID uint, action string, detail map[string]interface{})
	Blocked(ctx context.Context, queueID uint, action string, v *rules.Violation, dryRun bool)
}

type QueueService struct {
	store  storage.Store
	locker lock.Locker
	events eventRecorder
	logger *logrus.Logger
}

func NewQueueService(store storage.Store, locker lock.Locker, events eventRecorder, logger *logrus.Logger) *QueueService {
	return &QueueService{
		store:  store,
		locker: locker,
		events: events,
		logger: logger,
	}
}

func (s *QueueService) loadQueue(ctx context.Context, st storage.Store, queueID uint, forUpdate bool) (*models.Queue, error) {
	get := st.GetQueue
	if forUpdate {
		get = st.LockQueue
	}
	queue, err := get(ctx, queueID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, rules.QueueNotFound()
	}
	if err != nil {
		return nil, errors.Wrap(err, "service : load queue")
	}
	return queue, nil
}

// mutate holds the queue lock for the whole of fn, including any event recording
// fn's caller does after the transaction commits.
func (s *QueueService) mutate(ctx context.Context, queueID uint, fn func(tx storage.Store) error) (func(), error) {
	unlock, err := s.locker.Lock(ctx, queueID)
	if err != nil {
		return nil, errors.Wrap(err, "service : lock queue")
	}
	if err := s.store.Transaction(ctx, fn); err != nil {
		return unlock, err
	}
	return unlock, nil
}

// reject records a BLOCKED event for rule violations and returns err unchanged.
// Missing queues and entries are not recorded.
func (s *QueueService) reject(ctx context.Context, queueID uint, action string, err error) error {
	if v, ok := rules.AsViolation(err); ok && !v.Code.NotFound() {
		s.events.Blocked(ctx, queueID, action, v, false)
	}
	return err
}

// simulate converts a violation met during a dry run into a would_fail result.
func (s *QueueService) simulate(ctx context.Context, queueID uint, action string, err error) (*DryRunResult, error) {
	v, ok := rules.AsViolation(err)
	if !ok || v.Code.NotFound() {
		return nil, err
	}
	s.events.Blocked(ctx, queueID, action, v, true)
	return &DryRunResult{
		DryRun:   true,
		Result:   ResultWouldFail,
		Reason:   v.Reason,
		RuleCode: string(v.Code),
	}, nil
}

func (s *QueueService) ListQueues(ctx context.Context) ([]QueueListItem, error) {
	queues, err := s.store.ListQueues(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.EntryCounts(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]QueueListItem, 0, len(queues))
	for _, q := range queues {
		c := counts[q.ID]
		items = append(items, QueueListItem{
			ID:           q.ID,
			Name:         q.Name,
			Status:       string(q.Status),
			WaitingCount: c.Waiting,
			TotalCount:   c.Total,
			CreatedAt:    q.CreatedAt,
		})
	}
	return items, nil
}

func (s *QueueService) CreateQueue(ctx context.Context, name string) (*CreatedQueue, error) {
	queue, err := s.store.CreateQueue(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	s.logger.WithContext(ctx).WithFields(logrus.Fields{"queue_id": queue.ID, "name": queue.Name}).Debug("queue created")
	return &CreatedQueue{ID: queue.ID, Name: queue.Name}, nil
}

type joinPlan struct {
	userName string
	entries  []models.QueueEntry
	position int
}

// planJoin applies the join rules in order: name, paused, duplicate.
func (s *QueueService) planJoin(ctx context.Context, st storage.Store, queueID uint, userName string, forUpdate bool) (*joinPlan, error) {
	queue, err := s.loadQueue(ctx, st, queueID, forUpdate)
	if err != nil {
		return nil, err
	}

	if err := rules.ValidateUserName(userName); err != nil {
		return nil, err
	}
	if err := rules.ValidateQueueActiveForJoin(queue); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(userName)
	entries, err := st.EntriesForQueue(ctx, queueID)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateNoDuplicateWaiting(name, entries); err != nil {
		return nil, err
	}

	position, err := st.NextPosition(ctx, queueID)
	if err != nil {
		return nil, err
	}
	return &joinPlan{userName: name, entries: entries, position: position}, nil
}

func (s *QueueService) Join(ctx context.Context, queueID uint, userName string) (*JoinResult, error) {
	var entry *models.QueueEntry
	unlock, err := s.mutate(ctx, queueID, func(tx storage.Store) error {
		plan, err := s.planJoin(ctx, tx, queueID, userName, true)
		if err != nil {
			return err
		}
		entry = &models.QueueEntry{
			QueueID:  queueID,
			UserName: plan.userName,
			Position: plan.position,
			Status:   models.EntryWaiting,
		}
		return tx.AddEntry(ctx, entry)
	})
	if unlock != nil {
		defer unlock()
	}
	if err != nil {
		return nil, s.reject(ctx, queueID, models.ActionJoinAttempt, err)
	}

	s.events.Success(ctx, queueID, models.ActionJoin, map[string]interface{}{
		"user_name": entry.UserName,
		"position":  entry.Position,
	})
	return &JoinResult{
		EntryID:  entry.ID,
		UserName: entry.UserName,
		Position: entry.Position,
		Status:   string(entry.Status),
	}, nil
}

// DryRunJoin evaluates a join without persisting it. The reported position is the
// one a real join would receive right now.
func (s *QueueService) DryRunJoin(ctx context.Context, queueID uint, userName string) (*DryRunResult, error) {
	plan, err := s.planJoin(ctx, s.store, queueID, userName, false)
	if err != nil {
		return s.simulate(ctx, queueID, models.ActionJoinAttempt, err)
	}

	projected := append(plan.entries, models.QueueEntry{
		QueueID:  queueID,
		UserName: plan.userName,
		Position: plan.position,
		Status:   models.EntryWaiting,
	})
	return &DryRunResult{
		DryRun:      true,
		Result:      ResultWouldSucceed,
		UserName:    plan.userName,
		Position:    plan.position,
		Explanation: explain.WaitTime(projected, plan.userName),
	}, nil
}

func (s *QueueService) planServe(ctx context.Context, st storage.Store, queueID uint, forUpdate bool) (*models.QueueEntry, error) {
	if _, err := s.loadQueue(ctx, st, queueID, forUpdate); err != nil {
		return nil, err
	}
	entries, err := st.EntriesForQueue(ctx, queueID)
	if err != nil {
		return nil, err
	}

	target, err := rules.ServeTarget(entries)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateNotAlreadyServed(target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *QueueService) ServeNext(ctx context.Context, queueID uint) (*EntryResult, error) {
	var served *models.QueueEntry
	unlock, err := s.mutate(ctx, queueID, func(tx storage.Store) error {
		target, err := s.planServe(ctx, tx, queueID, true)
		if err != nil {
			return err
		}
		served = target
		return tx.SetEntryStatus(ctx, target, models.EntryServed)
	})
	if unlock != nil {
		defer unlock()
	}
	if err != nil {
		return nil, s.reject(ctx, queueID, models.ActionServe, err)
	}

	s.events.Success(ctx, queueID, models.ActionServe, map[string]interface{}{
		"user_name": served.UserName,
		"entry_id":  served.ID,
	})
	return entryResult(served), nil
}

func (s *QueueService) DryRunServe(ctx context.Context, queueID uint) (*DryRunResult, error) {
	target, err := s.planServe(ctx, s.store, queueID, false)
	if err != nil {
		return s.simulate(ctx, queueID, models.ActionServe, err)
	}
	return &DryRunResult{DryRun: true, Result: ResultWouldSucceed, UserName: target.UserName}, nil
}

// SkipEntry skips one explicitly named entry. It has no dry-run form.
func (s *QueueService) SkipEntry(ctx context.Context, queueID, entryID uint) (*EntryResult, error) {
	var skipped *models.QueueEntry
	unlock, err := s.mutate(ctx, queueID, func(tx storage.Store) error {
		if _, err := s.loadQueue(ctx, tx, queueID, true); err != nil {
			return err
		}

		entry, err := tx.GetEntry(ctx, entryID)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && entry.QueueID != queueID) {
			return rules.EntryNotFound()
		}
		if err != nil {
			return err
		}

		if err := rules.ValidateCanSkip(entry); err != nil {
			return err
		}
		skipped = entry
		return tx.SetEntryStatus(ctx, entry, models.EntrySkipped)
	})
	if unlock != nil {
		defer unlock()
	}
	if err != nil {
		return nil, s.reject(ctx, queueID, models.ActionSkip, err)
	}

	s.events.Success(ctx, queueID, models.ActionSkip, map[string]interface{}{
		"user_name": skipped.UserName,
		"entry_id":  skipped.ID,
	})
	return entryResult(skipped), nil
}

func (s *QueueService) planSkip(ctx context.Context, st storage.Store, queueID uint, forUpdate bool) (*models.QueueEntry, error) {
	if _, err := s.loadQueue(ctx, st, queueID, forUpdate); err != nil {
		return nil, err
	}
	entries, err := st.EntriesForQueue(ctx, queueID)
	if err != nil {
		return nil, err
	}
	return rules.SkipTarget(entries)
}

func (s *QueueService) SkipNext(ctx context.Context, queueID uint) (*EntryResult, error) {
	var skipped *models.QueueEntry
	unlock, err := s.mutate(ctx, queueID, func(tx storage.Store) error {
		target, err := s.planSkip(ctx, tx, queueID, true)
		if err != nil {
			return err
		}
		skipped = target
		return tx.SetEntryStatus(ctx, target, models.EntrySkipped)
	})
	if unlock != nil {
		defer unlock()
	}
	if err != nil {
		return nil, s.reject(ctx, queueID, models.ActionSkip, err)
	}

	s.events.Success(ctx, queueID, models.ActionSkip, map[string]interface{}{
		"user_name": skipped.UserName,
		"entry_id":  skipped.ID,
	})
	return entryResult(skipped), nil
}

func (s *QueueService) DryRunSkip(ctx context.Context, queueID uint) (*DryRunResult, error) {
	target, err := s.planSkip(ctx, s.store, queueID, false)
	if err != nil {
		return s.simulate(ctx, queueID, models.ActionSkip, err)
	}
	return &DryRunResult{DryRun: true, Result: ResultWouldSucceed, UserName: target.UserName}, nil
}

func (s *QueueService) snapshot(ctx context.Context, queueID uint) (*models.Queue, []models.QueueEntry, error) {
	queue, err := s.loadQueue(ctx, s.store, queueID, false)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.store.EntriesForQueue(ctx, queueID)
	if err != nil {
		return nil, nil, err
	}
	return queue, entries, nil
}

func (s *QueueService) GetStatus(ctx context.Context, queueID uint) (*StatusResult, error) {
	queue, entries, err := s.snapshot(ctx, queueID)
	if err != nil {
		return nil, err
	}

	waits := make(map[string]string)
	for _, e := range models.WaitingEntries(entries) {
		waits[e.UserName] = explain.WaitTime(entries, e.UserName)
	}

	return &StatusResult{
		QueueID:          queue.ID,
		QueueName:        queue.Name,
		QueueStatus:      string(queue.Status),
		Entries:          entryViews(entries),
		Explanation:      explain.QueueStatus(entries),
		WaitExplanations: waits,
	}, nil
}

func (s *QueueService) GetSummary(ctx context.Context, queueID uint) (*SummaryResult, error) {
	queue, entries, err := s.snapshot(ctx, queueID)
	if err != nil {
		return nil, err
	}

	counts := models.CountByStatus(entries)
	var estimatedWait string
	if waiting := models.WaitingEntries(entries); len(waiting) > 0 {
		estimatedWait = explain.WaitTime(entries, waiting[len(waiting)-1].UserName)
	}

	return &SummaryResult{
		QueueID:       queue.ID,
		QueueName:     queue.Name,
		WaitingCount:  counts[models.EntryWaiting],
		ServedCount:   counts[models.EntryServed],
		SkippedCount:  counts[models.EntrySkipped],
		EstimatedWait: estimatedWait,
		Explanation:   explain.QueueStatus(entries),
	}, nil
}

// PreviewNextAction projects the next serve or skip from current state. It reads
// only.
func (s *QueueService) PreviewNextAction(ctx context.Context, queueID uint) (*PreviewResult, error) {
	_, entries, err := s.snapshot(ctx, queueID)
	if err != nil {
		return nil, err
	}

	waiting, err := rules.PreviewWaiting(entries)
	if err != nil {
		return nil, err
	}

	nextIfSkipped := explain.EmptyAfterSkip
	if len(waiting) > 1 {
		nextIfSkipped = waiting[1].UserName
	}

	return &PreviewResult{
		NextIfServed:        waiting[0].UserName,
		NextIfSkipped:       nextIfSkipped,
		SkipTarget:          waiting[0].UserName,
		ProjectedWaitChange: explain.ProjectedWaitChange(len(waiting)),
		WaitingCount:        len(waiting),
	}, nil
}

func (s *QueueService) setQueueStatus(ctx context.Context, queueID uint, action string, check func(*models.Queue) error, status models.QueueStatus) (*QueueStateResult, error) {
	var queue *models.Queue
	unlock, err := s.mutate(ctx, queueID, func(tx storage.Store) error {
		q, err := s.loadQueue(ctx, tx, queueID, true)
		if err != nil {
			return err
		}
		if err := check(q); err != nil {
			return err
		}
		queue = q
		return tx.SetQueueStatus(ctx, q, status)
	})
	if unlock != nil {
		defer unlock()
	}
	if err != nil {
		return nil, s.reject(ctx, queueID, action, err)
	}

	s.events.Success(ctx, queueID, action, nil)
	return &QueueStateResult{QueueID: queue.ID, Status: string(queue.Status)}, nil
}

// Pause blocks new joins. Serving and skipping continue.
func (s *QueueService) Pause(ctx context.Context, queueID uint) (*QueueStateResult, error) {
	return s.setQueueStatus(ctx, queueID, models.ActionPaused, rules.ValidatePause, models.QueuePaused)
}

func (s *QueueService) Resume(ctx context.Context, queueID uint) (*QueueStateResult, error) {
	return s.setQueueStatus(ctx, queueID, models.ActionResumed, rules.ValidateResume, models.QueueActive)
}

// Events returns the queue's timeline, newest first.
func (s *QueueService) Events(ctx context.Context, queueID uint, limit int) ([]models.QueueEvent, error) {
	if _, err := s.loadQueue(ctx, s.store, queueID, false); err != nil {
		return nil, err
	}
	return s.store.Events(ctx, queueID, ClampEventLimit(limit))
}
