package scheduler

import (
	"errors"
	"fmt"

	"github.com/tuttoai/agenda-ai-platform/internal/schedule"
)

// ErrModifyUnsupported is returned by Modify: rescheduling is done by
// cancelling the old appointment and booking a new one.
var ErrModifyUnsupported = errors.New("scheduler: modification not supported, cancel and rebook instead")

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a requested slot that is already taken, with up
// to three free alternatives for the same day.
type ConflictError struct {
	Requested   string
	Suggestions []schedule.Slot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s is not available", e.Requested)
}

// AdapterError wraps a failure from a backing service (calendar,
// document store, lock) with the operation that failed.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }
