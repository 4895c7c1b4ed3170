// Package rules holds the queue fairness rules. Every function here is a pure check
// over a snapshot: it never writes, and it fails with a *Violation.
//
// Entry slices are expected in position order, as returned by the store.
package rules

import (
	"regexp"
	"strings"

	"queuewise/internal/models"
)

const minNameLength = 2

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z \-']*[A-Za-z]$`)

// ValidateUserName accepts alphabetic names of at least two letters; spaces, hyphens
// and apostrophes are allowed inside the name.
func ValidateUserName(userName string) error {
	name := strings.TrimSpace(userName)
	if len(name) < minNameLength {
		return newViolation(CodeInvalidName, "Name must be at least 2 characters long.")
	}
	if !namePattern.MatchString(name) {
		return newViolation(CodeInvalidName,
			"'%s' is not a valid name. Use letters only (spaces, hyphens, and apostrophes allowed).", userName)
	}
	return nil
}

// ValidateQueueActiveForJoin blocks joins on a paused queue. Serve and skip do not
// consult it.
func ValidateQueueActiveForJoin(queue *models.Queue) error {
	if !queue.AcceptsJoins() {
		return newViolation(CodeQueuePaused, "This queue is currently paused. New joins are not accepted.")
	}
	return nil
}

// ValidateNoDuplicateWaiting rejects a join while the same name is still WAITING.
// Served and skipped entries do not count.
func ValidateNoDuplicateWaiting(userName string, entries []models.QueueEntry) error {
	for _, e := range entries {
		if e.UserName == userName && e.Status == models.EntryWaiting {
			return newViolation(CodeDuplicateJoin, "User '%s' is already waiting in this queue.", userName)
		}
	}
	return nil
}

func firstWaiting(entries []models.QueueEntry) *models.QueueEntry {
	for i := range entries {
		if entries[i].Status == models.EntryWaiting {
			return &entries[i]
		}
	}
	return nil
}

// ServeTarget returns the only entry that may be served: the first WAITING one.
func ServeTarget(entries []models.QueueEntry) (*models.QueueEntry, error) {
	target := firstWaiting(entries)
	if target == nil {
		return nil, newViolation(CodeEmptyQueue, "No one is waiting in this queue.")
	}
	return target, nil
}

func ValidateNotAlreadyServed(entry *models.QueueEntry) error {
	if entry.Status == models.EntryServed {
		return newViolation(CodeAlreadyServed, "User '%s' has already been served.", entry.UserName)
	}
	return nil
}

// ValidateCanSkip requires an explicitly targeted entry to still be WAITING.
func ValidateCanSkip(entry *models.QueueEntry) error {
	if entry.Status != models.EntryWaiting {
		return newViolation(CodeNotWaiting, "User '%s' cannot be skipped (current status: %s).",
			entry.UserName, entry.Status)
	}
	return nil
}

// SkipTarget selects the entry skipped by a "skip next" request. The selection is
// the same as ServeTarget.
func SkipTarget(entries []models.QueueEntry) (*models.QueueEntry, error) {
	target := firstWaiting(entries)
	if target == nil {
		return nil, newViolation(CodeEmptyQueue, "No one is waiting in this queue to skip.")
	}
	return target, nil
}

// PreviewWaiting returns the WAITING entries a preview projects from.
func PreviewWaiting(entries []models.QueueEntry) ([]models.QueueEntry, error) {
	waiting := models.WaitingEntries(entries)
	if len(waiting) == 0 {
		return nil, newViolation(CodeEmptyQueue, "No one is waiting -- nothing to preview.")
	}
	return waiting, nil
}

func ValidatePause(queue *models.Queue) error {
	if queue.Status == models.QueuePaused {
		return newViolation(CodeAlreadyPaused, "Queue is already paused.")
	}
	return nil
}

func ValidateResume(queue *models.Queue) error {
	if queue.Status == models.QueueActive {
		return newViolation(CodeAlreadyActive, "Queue is already active.")
	}
	return nil
}
