package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionJoin        = "JOIN"
	ActionJoinAttempt = "JOIN_ATTEMPT"
	ActionServe       = "SERVE"
	ActionSkip        = "SKIP"
	ActionPaused      = "PAUSED"
	ActionResumed     = "RESUMED"

	ResultSuccess = "SUCCESS"
	ResultBlocked = "BLOCKED"
)

// QueueEvent is an append-only timeline record. Rows are never updated or deleted,
// so it carries no gorm.Model bookkeeping columns.
type QueueEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	QueueID   uint           `gorm:"not null;index" json:"queue_id"`
	Action    string         `gorm:"size:50;not null" json:"action"`
	Result    string         `gorm:"size:50;not null" json:"result"`
	Detail    datatypes.JSON `json:"detail,omitempty"`
	RequestID string         `gorm:"size:100" json:"request_id,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

// All lists every model that the schema must carry.
func All() []interface{} {
	return []interface{}{&Queue{}, &QueueEntry{}, &QueueEvent{}}
}
