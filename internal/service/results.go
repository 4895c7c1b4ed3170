package service

import (
	"time"

	"queuewise/internal/models"
)

const (
	ResultWouldSucceed = "would_succeed"
	ResultWouldFail    = "would_fail"

	DefaultEventLimit = 50
	MaxEventLimit     = 100
)

type QueueListItem struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	WaitingCount int64     `json:"waiting_count"`
	TotalCount   int64     `json:"total_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreatedQueue struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type JoinResult struct {
	EntryID  uint   `json:"entry_id"`
	UserName string `json:"user_name"`
	Position int    `json:"position"`
	Status   string `json:"status"`
}

// EntryResult is returned by serve and skip.
type EntryResult struct {
	EntryID  uint   `json:"entry_id"`
	UserName string `json:"user_name"`
	Status   string `json:"status"`
}

// DryRunResult is the outcome of a simulated join, serve or skip.
type DryRunResult struct {
	DryRun      bool   `json:"dry_run"`
	Result      string `json:"result"`
	Reason      string `json:"reason,omitempty"`
	RuleCode    string `json:"rule_code,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	Position    int    `json:"position,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

type EntryView struct {
	ID       uint      `json:"id"`
	UserName string    `json:"user_name"`
	Position int       `json:"position"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

type StatusResult struct {
	QueueID          uint              `json:"queue_id"`
	QueueName        string            `json:"queue_name"`
	QueueStatus      string            `json:"queue_status"`
	Entries          []EntryView       `json:"entries"`
	Explanation      string            `json:"explanation"`
	WaitExplanations map[string]string `json:"wait_explanations"`
}

type SummaryResult struct {
	QueueID       uint   `json:"queue_id"`
	QueueName     string `json:"queue_name"`
	WaitingCount  int    `json:"waiting_count"`
	ServedCount   int    `json:"served_count"`
	SkippedCount  int    `json:"skipped_count"`
	EstimatedWait string `json:"estimated_wait"`
	Explanation   string `json:"explanation"`
}

type PreviewResult struct {
	NextIfServed        string `json:"next_if_served"`
	NextIfSkipped       string `json:"next_if_skipped"`
	SkipTarget          string `json:"skip_target"`
	ProjectedWaitChange string `json:"projected_wait_change"`
	WaitingCount        int    `json:"waiting_count"`
}

type QueueStateResult struct {
	QueueID uint   `json:"queue_id"`
	Status  string `json:"status"`
}

func entryResult(e *models.QueueEntry) *EntryResult {
	return &EntryResult{EntryID: e.ID, UserName: e.UserName, Status: string(e.Status)}
}

func entryViews(entries []models.QueueEntry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, EntryView{
			ID:       e.ID,
			UserName: e.UserName,
			Position: e.Position,
			Status:   string(e.Status),
			JoinedAt: e.JoinedAt,
		})
	}
	return views
}

// ClampEventLimit bounds a requested timeline length to [0, MaxEventLimit].
func ClampEventLimit(limit int) int {
	switch {
	case limit < 0:
		return 0
	case limit > MaxEventLimit:
		return MaxEventLimit
	}
	return limit
}
