package models

import (
	"errors"
	"fmt"
)

// Operation names a mutation the scheduling engine can apply to content.
type Operation string

const (
	OperationSchedule      Operation = "schedule"
	OperationReschedule    Operation = "reschedule"
	OperationCancel        Operation = "cancel"
	OperationSetRecurrence Operation = "set_recurrence"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// transitions is the scheduling engine's slice of the content state machine. Published,
// failed and archived are reached only by the publishing side and never appear as a source.
var transitions = map[ContentStatus]map[Operation]ContentStatus{
	ContentStatusDraft: {
		OperationSchedule: ContentStatusScheduled,
	},
	ContentStatusScheduled: {
		OperationSchedule:      ContentStatusScheduled,
		OperationReschedule:    ContentStatusScheduled,
		OperationCancel:        ContentStatusDraft,
		OperationSetRecurrence: ContentStatusScheduled,
	},
}

// Transition returns the status that results from applying op to content in status from.
func Transition(from ContentStatus, op Operation) (ContentStatus, error) {
	to, ok := transitions[from][op]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s content in %s status", ErrInvalidTransition, op, from)
	}

	return to, nil
}
