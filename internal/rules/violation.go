package rules

import (
	"errors"
	"fmt"
)

// Code is the stable, machine-readable identifier of a violation. Callers route on
// it; Reason is display text only.
type Code string

const (
	CodeInvalidName   Code = "INVALID_NAME"
	CodeQueuePaused   Code = "QUEUE_PAUSED"
	CodeDuplicateJoin Code = "DUPLICATE_JOIN"
	CodeEmptyQueue    Code = "EMPTY_QUEUE"
	CodeAlreadyServed Code = "ALREADY_SERVED"
	CodeNotWaiting    Code = "NOT_WAITING"
	CodeQueueNotFound Code = "QUEUE_NOT_FOUND"
	CodeEntryNotFound Code = "ENTRY_NOT_FOUND"
	CodeAlreadyPaused Code = "ALREADY_PAUSED"
	CodeAlreadyActive Code = "ALREADY_ACTIVE"
)

// NotFound reports whether the code describes an absent resource.
func (c Code) NotFound() bool {
	return c == CodeQueueNotFound || c == CodeEntryNotFound
}

type Violation struct {
	Code   Code
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Reason)
}

func newViolation(code Code, format string, args ...interface{}) *Violation {
	return &Violation{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// AsViolation unwraps err into a *Violation.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

func QueueNotFound() error {
	return newViolation(CodeQueueNotFound, "Queue not found.")
}

func EntryNotFound() error {
	return newViolation(CodeEntryNotFound, "Entry not found in this queue.")
}
