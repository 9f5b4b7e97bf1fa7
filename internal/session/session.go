// Package session keeps one user's view of a group's trip planning state and
// applies that user's changes optimistically.
//
// A change is applied locally first, sent to the backend, then either replaced
// by the backend's authoritative record or rolled back to the snapshot taken
// before it was applied. In-flight changes are tracked per class so that
// background refreshes and reconciliation never overwrite them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripplanner/internal/metrics"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/reconcile"
	"github.com/mmynk/tripplanner/internal/tally"
	"github.com/mmynk/tripplanner/internal/trip"
)

const (
	// DefaultRefreshInterval is the polling period used by Start.
	DefaultRefreshInterval = 30 * time.Second
	// DefaultRetryDelay is the wait before re-reading votes that came back
	// empty right after a successful write.
	DefaultRetryDelay = 500 * time.Millisecond
)

// DataAccess is the backend a Session reads from and writes to. Reads return
// a nil result with a nil error when the record does not exist.
type DataAccess interface {
	GetGroupByID(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupMembers(ctx context.Context, groupID string) ([]*models.User, error)
	GetAllDestinations(ctx context.Context) ([]*models.Destination, error)
	GetDestinationByID(ctx context.Context, destinationID string) (*models.Destination, error)
	GetUserVote(ctx context.Context, userID string) (*models.Vote, error)
	GetVotesByGroupID(ctx context.Context, groupID string) ([]*models.Vote, error)
	CastVote(ctx context.Context, userID, destinationID string) (*models.Vote, error)
	GetGroupTrip(ctx context.Context, groupID string) (*models.Trip, error)
	CreateTrip(ctx context.Context, groupID string) (*models.Trip, error)
	FinalizeVoting(ctx context.Context, groupID string) (*models.Trip, error)
	UpdateParticipantStatus(ctx context.Context, tripID, userID string, status models.ParticipantStatus) (*models.Trip, error)
	// AddParticipants creates pending records for the users that have none
	// and leaves existing records untouched.
	AddParticipants(ctx context.Context, tripID string, userIDs []string) (*models.Trip, error)
	UpdateParticipantPaymentStatus(ctx context.Context, tripID, userID string, status models.PaymentStatus, amount *float64) (*models.Trip, error)
}

// State is the local view of a group. Values returned by Snapshot are copies.
type State struct {
	Group        *models.Group
	Members      []*models.User
	Destinations []*models.Destination
	Trip         *models.Trip
	UserVote     *models.Vote
	AllVotes     []models.Vote
}

func (st *State) clone() State {
	out := State{
		Trip:     st.Trip.Clone(),
		UserVote: st.UserVote.Clone(),
		AllVotes: append([]models.Vote(nil), st.AllVotes...),
	}
	if st.Group != nil {
		g := *st.Group
		g.Members = append([]string(nil), st.Group.Members...)
		out.Group = &g
	}
	for _, u := range st.Members {
		c := *u
		out.Members = append(out.Members, &c)
	}
	for _, d := range st.Destinations {
		c := *d
		out.Destinations = append(out.Destinations, &c)
	}
	return out
}

// InFlight reports which mutation classes are pending.
type InFlight struct {
	Votes        bool
	Participants bool
}

// Session coordinates one user's view of one group. Sessions share nothing,
// so any number may run side by side.
type Session struct {
	data    DataAccess
	groupID string
	userID  string

	logger          *slog.Logger
	metrics         *metrics.Metrics
	now             func() time.Time
	refreshInterval time.Duration
	retryDelay      time.Duration

	mu                   sync.Mutex
	state                State
	loaded               bool
	votesInFlight        int
	participantsInFlight int
	// Bumped whenever a mutation of the class resolves.
	voteGen        uint64
	participantGen uint64

	pollMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a session for userID viewing groupID. Call Load before
// anything else.
func New(data DataAccess, groupID, userID string, opts ...Option) *Session {
	s := &Session{
		data:            data,
		groupID:         groupID,
		userID:          userID,
		logger:          slog.Default(),
		now:             time.Now,
		refreshInterval: DefaultRefreshInterval,
		retryDelay:      DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("group_id", groupID, "user_id", userID)
	return s
}

// GroupID returns the group this session views.
func (s *Session) GroupID() string { return s.groupID }

// UserID returns the user this session acts for.
func (s *Session) UserID() string { return s.userID }

// Load fetches the full group state, creates the trip if the group has none
// and reconciles participants with members.
func (s *Session) Load(ctx context.Context) error {
	if s.groupID == "" || s.userID == "" {
		return opError(OpLoad, ErrInvalidArgument, nil)
	}

	s.mu.Lock()
	busy := s.votesInFlight > 0 || s.participantsInFlight > 0
	s.mu.Unlock()
	if busy {
		return opError(OpLoad, ErrBusy, nil)
	}

	var (
		group        *models.Group
		members      []*models.User
		destinations []*models.Destination
		current      *models.Trip
		userVote     *models.Vote
		votes        []*models.Vote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		group, err = s.data.GetGroupByID(gctx, s.groupID)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.data.GetGroupMembers(gctx, s.groupID)
		return err
	})
	g.Go(func() (err error) {
		destinations, err = s.data.GetAllDestinations(gctx)
		return err
	})
	g.Go(func() (err error) {
		current, err = s.data.GetGroupTrip(gctx, s.groupID)
		return err
	})
	g.Go(func() (err error) {
		userVote, err = s.data.GetUserVote(gctx, s.userID)
		return err
	})
	g.Go(func() (err error) {
		votes, err = s.data.GetVotesByGroupID(gctx, s.groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load group %s: %w", s.groupID, err)
	}
	if group == nil {
		return opError(OpLoad, ErrNotFound, fmt.Errorf("group %s", s.groupID))
	}

	if current == nil {
		created, err := s.data.CreateTrip(ctx, s.groupID)
		if err != nil {
			return fmt.Errorf("failed to create trip for group %s: %w", s.groupID, err)
		}
		current = created
	}

	s.mu.Lock()
	s.state = State{
		Group:        group,
		Members:      members,
		Destinations: destinations,
		Trip:         current.Clone(),
		UserVote:     userVote.Clone(),
		AllVotes:     derefVotes(votes),
	}
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("Session loaded", "members", len(members), "votes", len(votes))
	return s.Reconcile(ctx)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// InFlight reports which mutation classes currently have pending changes.
func (s *Session) InFlight() InFlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return InFlight{
		Votes:        s.votesInFlight > 0,
		Participants: s.participantsInFlight > 0,
	}
}

// Tally counts the current votes. Every known destination appears, including
// those with no votes.
func (s *Session) Tally() *tally.Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.state.Destinations))
	for _, d := range s.state.Destinations {
		ids = append(ids, d.ID)
	}
	return tally.Count(s.state.AllVotes, ids...)
}

// CastVote records the user's vote for destinationID, replacing any earlier
// vote. The local state shows the new vote immediately. On failure the
// previous vote is restored and the returned error wraps ErrWriteFailure.
func (s *Session) CastVote(ctx context.Context, destinationID string) (*models.Vote, error) {
	if destinationID == "" {
		return nil, opError(OpCastVote, ErrInvalidArgument, errors.New("destination ID is required"))
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, opError(OpCastVote, ErrNotLoaded, nil)
	}
	if !trip.VotingOpen(s.state.Trip) {
		s.mu.Unlock()
		return nil, opError(OpCastVote, ErrInvalidArgument, errors.New("voting is closed"))
	}
	pending := NewPendingVote(&s.state, s.userID, destinationID, s.now().UnixMilli())
	pending.Apply(&s.state)
	s.votesInFlight++
	s.mu.Unlock()

	saved, err := s.sendVote(ctx, pending)
	if err != nil {
		s.metrics.Mutation(OpCastVote, metrics.OutcomeRolledBack)
		s.logger.Warn("Vote rolled back", "destination_id", destinationID, "error", err)
		return nil, err
	}
	s.metrics.Mutation(OpCastVote, metrics.OutcomeCommitted)
	s.metrics.VoteCast()

	s.refreshAfterVote(ctx)
	return saved, nil
}

// sendVote runs the remote write and resolves pending. The vote guard is
// released on every path.
func (s *Session) sendVote(ctx context.Context, pending *PendingVote) (*models.Vote, error) {
	defer s.release(&s.votesInFlight, &s.voteGen)

	saved, err := s.data.CastVote(ctx, pending.Optimistic.UserID, pending.Optimistic.DestinationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || saved == nil {
		pending.Rollback(&s.state)
		if err == nil {
			err = errors.New("backend returned no vote")
		}
		return nil, opError(OpCastVote, ErrWriteFailure, err)
	}
	pending.Commit(&s.state, *saved)
	return saved.Clone(), nil
}

// refreshAfterVote reloads the group's votes after a successful cast. An
// empty read is retried once and then ignored, keeping the local state.
func (s *Session) refreshAfterVote(ctx context.Context) {
	s.mu.Lock()
	gen := s.voteGen
	s.mu.Unlock()

	votes, err := readAfterWrite(ctx, s.retryDelay, func(ctx context.Context) ([]*models.Vote, error) {
		return s.data.GetVotesByGroupID(ctx, s.groupID)
	}, func(votes []*models.Vote) bool { return len(votes) == 0 })
	if err != nil {
		s.logger.Warn("Failed to refresh votes after cast", "error", err)
		return
	}
	if len(votes) == 0 {
		s.logger.Debug("Votes still empty after cast, keeping local state")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.votesInFlight > 0 || s.voteGen != gen {
		s.metrics.RefreshSkipped("after_cast", "vote_in_flight")
		return
	}
	s.state.AllVotes = derefVotes(votes)
}

// UpdateParticipantStatus sets userID's confirmation status on the trip.
func (s *Session) UpdateParticipantStatus(ctx context.Context, userID string, status models.ParticipantStatus) (*models.Trip, error) {
	if !status.Valid() {
		return nil, opError(OpUpdateStatus, ErrInvalidArgument, fmt.Errorf("unknown participant status %q", status))
	}
	return s.mutateParticipant(ctx, OpUpdateStatus, userID,
		func(p *models.Participant) { p.Status = status },
		func(ctx context.Context, tripID string) (*models.Trip, error) {
			return s.data.UpdateParticipantStatus(ctx, tripID, userID, status)
		},
	)
}

// UpdatePaymentStatus sets userID's payment status on the trip. A nil amount
// keeps the recorded amount.
func (s *Session) UpdatePaymentStatus(ctx context.Context, userID string, status models.PaymentStatus, amount *float64) (*models.Trip, error) {
	if !status.Valid() {
		return nil, opError(OpUpdatePayment, ErrInvalidArgument, fmt.Errorf("unknown payment status %q", status))
	}
	if amount != nil && *amount < 0 {
		return nil, opError(OpUpdatePayment, ErrInvalidArgument, errors.New("payment amount must not be negative"))
	}
	return s.mutateParticipant(ctx, OpUpdatePayment, userID,
		func(p *models.Participant) {
			p.PaymentStatus = status
			if amount != nil {
				v := *amount
				p.PaymentAmount = &v
			}
		},
		func(ctx context.Context, tripID string) (*models.Trip, error) {
			return s.data.UpdateParticipantPaymentStatus(ctx, tripID, userID, status, amount)
		},
	)
}

func (s *Session) mutateParticipant(
	ctx context.Context,
	op, userID string,
	change func(*models.Participant),
	send func(ctx context.Context, tripID string) (*models.Trip, error),
) (*models.Trip, error) {
	if userID == "" {
		return nil, opError(op, ErrInvalidArgument, errors.New("user ID is required"))
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, opError(op, ErrNotLoaded, nil)
	}
	if s.state.Trip == nil {
		s.mu.Unlock()
		return nil, opError(op, ErrNotFound, errors.New("group has no trip"))
	}
	tripID := s.state.Trip.ID
	pending := NewPendingParticipant(s.state.Trip, userID, change)
	pending.Apply(&s.state)
	s.participantsInFlight++
	s.mu.Unlock()

	updated, err := func() (*models.Trip, error) {
		defer s.release(&s.participantsInFlight, &s.participantGen)

		server, err := send(ctx, tripID)

		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case err != nil:
			pending.Rollback(&s.state)
			return nil, opError(op, ErrWriteFailure, err)
		case server == nil:
			pending.Rollback(&s.state)
			return nil, opError(op, ErrNotFound, fmt.Errorf("trip %s", tripID))
		}
		pending.Commit(&s.state, server)
		return s.state.Trip.Clone(), nil
	}()
	if err != nil {
		s.metrics.Mutation(op, metrics.OutcomeRolledBack)
		s.logger.Warn("Participant change rolled back", "op", op, "participant_id", userID, "error", err)
		return nil, err
	}
	s.metrics.Mutation(op, metrics.OutcomeCommitted)
	return updated, nil
}

// FinalizeVoting asks the backend to pick the winning destination and
// confirm the trip. It is refused with ErrBusy while any change is pending
// and fails with ErrNoQuorum when nobody has voted. On success the trip's
// status and destination are replaced together.
func (s *Session) FinalizeVoting(ctx context.Context) (*models.Trip, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, opError(OpFinalizeVoting, ErrNotLoaded, nil)
	}
	if s.votesInFlight > 0 || s.participantsInFlight > 0 {
		s.mu.Unlock()
		return nil, opError(OpFinalizeVoting, ErrBusy, nil)
	}
	// Finalize rewrites the trip, so it holds the participant guard.
	s.participantsInFlight++
	s.mu.Unlock()
	defer s.release(&s.participantsInFlight, &s.participantGen)

	confirmed, err := s.data.FinalizeVoting(ctx, s.groupID)
	switch {
	case errors.Is(err, trip.ErrNoVotes):
		s.metrics.Finalized("no_votes")
		return nil, opError(OpFinalizeVoting, ErrNoQuorum, nil)
	case err != nil:
		s.metrics.Finalized("failed")
		s.logger.Warn("Finalize voting failed", "error", err)
		return nil, opError(OpFinalizeVoting, ErrWriteFailure, err)
	case confirmed == nil:
		s.metrics.Finalized("failed")
		return nil, opError(OpFinalizeVoting, ErrNotFound, fmt.Errorf("group %s", s.groupID))
	}

	s.mu.Lock()
	t := confirmed.Clone()
	if s.state.Trip != nil {
		t.Participants = reconcile.MergeParticipants(confirmed.Participants, s.state.Trip.Participants)
	}
	s.state.Trip = t
	out := t.Clone()
	s.mu.Unlock()

	s.metrics.Finalized("confirmed")
	s.logger.Info("Voting finalized", "trip_id", t.ID, "destination_id", t.SelectedDestinationID)
	return out, nil
}

// release drops a guard and bumps its generation so reads that started
// before the mutation resolved are discarded.
func (s *Session) release(counter *int, gen *uint64) {
	s.mu.Lock()
	*counter--
	*gen++
	s.mu.Unlock()
}

func derefVotes(votes []*models.Vote) []models.Vote {
	out := make([]models.Vote, 0, len(votes))
	for _, v := range votes {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
