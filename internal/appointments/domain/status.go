// Package domain provides core business rules for the appointments bounded context.
package domain

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// Event is a lifecycle transition request.
type Event string

const (
	EventConfirm    Event = "confirm"
	EventStart      Event = "start"
	EventComplete   Event = "complete"
	EventCancel     Event = "cancel"
	EventMarkNoShow Event = "mark_no_show"
)

// transitions is the full state machine: any (state, event) pair missing
// from the table is an illegal transition. Completed, cancelled and no_show
// have no outgoing edges.
var transitions = map[Status]map[Event]Status{
	StatusScheduled: {
		EventConfirm:    StatusConfirmed,
		EventStart:      StatusInProgress,
		EventCancel:     StatusCancelled,
		EventMarkNoShow: StatusNoShow,
	},
	StatusConfirmed: {
		EventStart:      StatusInProgress,
		EventCancel:     StatusCancelled,
		EventMarkNoShow: StatusNoShow,
	},
	StatusInProgress: {
		EventComplete: StatusCompleted,
	},
}

// Transition returns the status reached by firing the event from the given
// status. ok is false when the pair is not a legal transition; the caller
// must leave the appointment unchanged in that case.
func Transition(from Status, ev Event) (Status, bool) {
	next, ok := transitions[from][ev]
	return next, ok
}

// IsValid reports whether s is one of the six known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}

// BlocksSlot reports whether an appointment in this status occupies its
// time slot for conflict detection. Cancelled and no-show appointments
// do not block new bookings.
func (s Status) BlocksSlot() bool {
	return s != StatusCancelled && s != StatusNoShow
}
