package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned by operations called before Load succeeded.
	ErrNotLoaded = errors.New("session not loaded")
	// ErrNotFound is returned when the group, trip or destination is absent.
	ErrNotFound = errors.New("not found")
	// ErrWriteFailure is returned when the backend rejected a mutation.
	// Local state has been restored when this is returned.
	ErrWriteFailure = errors.New("write failed")
	// ErrNoQuorum is returned when voting is finalized without any votes.
	ErrNoQuorum = errors.New("no votes to finalize")
	// ErrBusy is returned when finalize is requested while another change
	// is still in flight.
	ErrBusy = errors.New("another change is in progress")
	// ErrInvalidArgument is returned for empty IDs and unknown statuses.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Operation names used in errors, logs and metrics.
const (
	OpCastVote       = "cast_vote"
	OpUpdateStatus   = "update_participant_status"
	OpUpdatePayment  = "update_payment_status"
	OpFinalizeVoting = "finalize_voting"
	OpLoad           = "load"
)

// MutationError reports a failed user-facing operation. Err wraps one of the
// package sentinels and, when there is one, the backend error.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

func opError(op string, kind error, cause error) error {
	if cause == nil {
		return &MutationError{Op: op, Err: kind}
	}
	return &MutationError{Op: op, Err: fmt.Errorf("%w: %w", kind, cause)}
}
