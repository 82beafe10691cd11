package model

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// lifecycleRank orders the forward path of the happy lifecycle. Cancellation
// and no-show sit outside the ordering and are reachable from any
// non-terminal state.
var lifecycleRank = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusInProgress: 2,
	StatusFinished:   3,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusFinished, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are defined for s.
// Finished, cancelled, and no-show appointments cannot be reopened.
func (s Status) Terminal() bool {
	switch s {
	case StatusFinished, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an appointment may move from one status to
// another. The lifecycle only moves forward (pending -> confirmed ->
// in_progress -> finished, skipping allowed); cancelled and no_show are
// reachable from any non-terminal state. Setting the same status again is a
// no-op and always allowed.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled || to == StatusNoShow {
		return true
	}
	fromRank, ok := lifecycleRank[from]
	if !ok {
		return false
	}
	toRank, ok := lifecycleRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
