// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripplanner/internal/models"
)

// ErrNotFound is returned by writes that target a missing record.
// Reads report a missing record as a nil result with a nil error.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip planning storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	CatalogStore
	VoteStore
	TripStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group. ID, JoinCode and CreatedAt are
	// populated by the store and the creator becomes the first member.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroupByID returns nil when the group does not exist.
	GetGroupByID(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByJoinCode returns nil when no group uses the code.
	GetGroupByJoinCode(ctx context.Context, code string) (*models.Group, error)

	// AddGroupMember appends userID to the group. Adding an existing member
	// is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// ListGroupsForUser returns the groups userID belongs to.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// GetGroupMembers returns the member users in join order.
	GetGroupMembers(ctx context.Context, groupID string) ([]*models.User, error)
}

// CatalogStore persists the destination catalog.
type CatalogStore interface {
	UpsertDestinations(ctx context.Context, destinations []*models.Destination) error
	GetAllDestinations(ctx context.Context) ([]*models.Destination, error)

	// GetDestinationByID returns nil when the destination does not exist.
	GetDestinationByID(ctx context.Context, destinationID string) (*models.Destination, error)
}

// VoteStore persists single-slot votes.
type VoteStore interface {
	// GetUserVote returns nil when the user has not voted.
	GetUserVote(ctx context.Context, userID string) (*models.Vote, error)

	// GetVotesByGroupID returns the votes of the group's members in cast order.
	GetVotesByGroupID(ctx context.Context, groupID string) ([]*models.Vote, error)

	// CastVote replaces any previous vote by the user and returns the saved
	// vote with its authoritative timestamp.
	CastVote(ctx context.Context, userID, destinationID string) (*models.Vote, error)
}

// TripStore persists trips and their participants.
type TripStore interface {
	// GetGroupTrip returns nil when the group has no trip yet.
	GetGroupTrip(ctx context.Context, groupID string) (*models.Trip, error)

	// GetTripByID returns nil when the trip does not exist.
	GetTripByID(ctx context.Context, tripID string) (*models.Trip, error)

	// CreateTrip creates the group's trip with participants seeded from the
	// current members. If the group already has a trip it is returned.
	CreateTrip(ctx context.Context, groupID string) (*models.Trip, error)

	// FinalizeVoting tallies the group's votes, selects the winner and
	// confirms the trip in one transaction. Returns trip.ErrNoVotes when the
	// group has no votes.
	FinalizeVoting(ctx context.Context, groupID string) (*models.Trip, error)

	// UpdateParticipantStatus sets a participant's status, creating the
	// participant row if absent. Returns nil when the trip does not exist.
	UpdateParticipantStatus(ctx context.Context, tripID, userID string, status models.ParticipantStatus) (*models.Trip, error)

	// AddParticipants creates pending, unpaid rows for the users that have
	// none and leaves existing rows untouched. Returns nil when the trip does
	// not exist.
	AddParticipants(ctx context.Context, tripID string, userIDs []string) (*models.Trip, error)

	// UpdateParticipantPaymentStatus sets a participant's payment status and
	// amount, creating the participant row if absent. A nil amount leaves the
	// stored amount unchanged. Returns nil when the trip does not exist.
	UpdateParticipantPaymentStatus(ctx context.Context, tripID, userID string, status models.PaymentStatus, amount *float64) (*models.Trip, error)
}
