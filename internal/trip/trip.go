// Package trip implements the trip lifecycle: voting -> confirmed.
//
// A trip starts in voting and moves to confirmed only when voting is
// finalized. The completed status exists in the data model but no
// transition leads to it, and nothing moves a trip back to voting.
package trip

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripplanner/internal/models"
)

var (
	// ErrNoVotes is returned when voting is finalized for a group without votes.
	ErrNoVotes = errors.New("no votes to finalize")
	// ErrNoWinner is returned when no destination could be selected.
	ErrNoWinner = errors.New("no winning destination")
	// ErrInvalidTransition is returned for any transition other than voting -> confirmed.
	ErrInvalidTransition = errors.New("invalid trip status transition")
)

// CanTransition reports whether a trip may move from one status to another.
func CanTransition(from, to models.TripStatus) bool {
	return from == models.TripStatusVoting && to == models.TripStatusConfirmed
}

// Transition validates a status change.
func Transition(from, to models.TripStatus) error {
	if !from.Valid() || !to.Valid() || !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// New returns a voting trip for the group with a pending, unpaid participant
// for every member.
func New(groupID string, members []string) *models.Trip {
	now := time.Now().Unix()
	t := &models.Trip{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		Status:    models.TripStatusVoting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		t.Participants = append(t.Participants, models.NewPendingParticipant(m))
	}
	return t
}

// Finalize returns a copy of t confirmed with destinationID selected.
// The destination and status are set together; on error t is untouched and
// no copy is returned.
func Finalize(t *models.Trip, destinationID string) (*models.Trip, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: trip is nil", ErrInvalidTransition)
	}
	if destinationID == "" {
		return nil, ErrNoWinner
	}
	if err := Transition(t.Status, models.TripStatusConfirmed); err != nil {
		return nil, err
	}

	confirmed := t.Clone()
	confirmed.SelectedDestinationID = destinationID
	confirmed.Status = models.TripStatusConfirmed
	confirmed.UpdatedAt = time.Now().Unix()
	return confirmed, nil
}

// VotingOpen reports whether votes on the trip can still change the outcome.
func VotingOpen(t *models.Trip) bool {
	return t == nil || t.Status == models.TripStatusVoting
}
