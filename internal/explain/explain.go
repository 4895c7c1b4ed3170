// Package explain turns queue snapshots into display text. Nothing here feeds back
// into rule evaluation.
package explain

import (
	"fmt"

	"queuewise/internal/models"
)

// MinutesPerPerson is the flat service time used by every wait estimate.
const MinutesPerPerson = 3

// EmptyAfterSkip is reported by a preview when nobody would remain after skipping.
const EmptyAfterSkip = "Queue would be empty"

// WaitMinutes estimates the wait for the entry at zero-based rank among WAITING
// entries. Rank is not the stored position, which is never renumbered.
func WaitMinutes(rank int) int {
	return rank * MinutesPerPerson
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// WaitTime describes how long userName still has to wait.
func WaitTime(entries []models.QueueEntry, userName string) string {
	rank := -1
	for i, e := range models.WaitingEntries(entries) {
		if e.UserName == userName {
			rank = i
			break
		}
	}

	switch rank {
	case -1:
		return fmt.Sprintf("%s is not currently waiting in this queue.", userName)
	case 0:
		return fmt.Sprintf("%s, you're next! Please be ready.", userName)
	}

	return fmt.Sprintf("%s, there %s %d %s ahead of you. Estimated wait: ~%d minutes.",
		userName, plural(rank, "is", "are"), rank, plural(rank, "person", "people"), WaitMinutes(rank))
}

// QueueStatus summarises the whole queue in one sentence.
func QueueStatus(entries []models.QueueEntry) string {
	counts := models.CountByStatus(entries)
	waiting, served := counts[models.EntryWaiting], counts[models.EntryServed]

	if waiting == 0 && served == 0 {
		return "This queue is empty. Be the first to join!"
	}
	if waiting == 0 {
		return fmt.Sprintf("All %d %s been served. The queue is now clear.",
			served, plural(served, "person has", "people have"))
	}

	next := models.WaitingEntries(entries)[0].UserName
	return fmt.Sprintf("%d %s waiting. %d already served. Next up: %s.",
		waiting, plural(waiting, "person", "people"), served, next)
}

// ProjectedWaitChange reports how the wait of everyone behind the first entry moves
// once that entry leaves the line.
func ProjectedWaitChange(waitingCount int) string {
	if waitingCount <= 1 {
		return "Queue would be empty after this action"
	}
	current := WaitMinutes(waitingCount - 1)
	projected := WaitMinutes(waitingCount - 2)
	return fmt.Sprintf("~%d minutes faster for remaining", current-projected)
}

func RuleFailure(reason string) string {
	return "Sorry, that action isn't allowed: " + reason
}
