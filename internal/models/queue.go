package models

import (
	"gorm.io/gorm"
)

type QueueStatus string

const (
	QueueActive QueueStatus = "ACTIVE"
	QueuePaused QueueStatus = "PAUSED"
)

// Queue is the aggregate root for entries. Queues are never deleted.
type Queue struct {
	gorm.Model
	Name   string      `gorm:"size:120;not null"`
	Status QueueStatus `gorm:"size:16;not null;default:ACTIVE"`
}

func (q *Queue) AcceptsJoins() bool {
	return q.Status == QueueActive
}
