package models

import (
	"time"

	"gorm.io/gorm"
)

type EntryStatus string

const (
	EntryWaiting EntryStatus = "WAITING"
	EntryServed  EntryStatus = "SERVED"
	EntrySkipped EntryStatus = "SKIPPED"
)

// Terminal reports whether no further transition is allowed.
func (s EntryStatus) Terminal() bool {
	return s == EntryServed || s == EntrySkipped
}

type QueueEntry struct {
	gorm.Model
	QueueID  uint        `gorm:"not null;uniqueIndex:idx_queue_entries_queue_position,priority:1"`
	UserName string      `gorm:"size:120;not null;index"`
	Position int         `gorm:"not null;uniqueIndex:idx_queue_entries_queue_position,priority:2"` // assigned at join, never renumbered
	Status   EntryStatus `gorm:"size:16;not null;default:WAITING;index"`
	JoinedAt time.Time   `gorm:"not null"`
}

// WaitingEntries keeps the WAITING entries of a position-ordered slice, in order.
func WaitingEntries(entries []QueueEntry) []QueueEntry {
	waiting := make([]QueueEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == EntryWaiting {
			waiting = append(waiting, e)
		}
	}
	return waiting
}

// CountByStatus tallies entries per status.
func CountByStatus(entries []QueueEntry) map[EntryStatus]int {
	counts := map[EntryStatus]int{EntryWaiting: 0, EntryServed: 0, EntrySkipped: 0}
	for _, e := range entries {
		counts[e.Status]++
	}
	return counts
}
