package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/internal/metrics"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/storage"
	"github.com/mmynk/tripplanner/internal/tally"
	"github.com/mmynk/tripplanner/internal/trip"
	pb "github.com/mmynk/tripplanner/pkg/tripapi"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

// Catalog lists the destinations a group can vote on.
type Catalog interface {
	Destinations(ctx context.Context) ([]*models.Destination, error)
	Destination(ctx context.Context, destinationID string) (*models.Destination, error)
}

// TripService implements the Connect TripService: the destination catalog,
// voting and the trip lifecycle.
type TripService struct {
	store    storage.Store
	catalog  Catalog
	tieBreak tally.TieBreak
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// TripServiceOption configures a TripService.
type TripServiceOption func(*TripService)

// WithTieBreak sets the policy GetTally uses to name the leader. It should
// match the store's finalize policy.
func WithTieBreak(policy tally.TieBreak) TripServiceOption {
	return func(s *TripService) { s.tieBreak = policy }
}

// WithServiceMetrics records votes and finalizations.
func WithServiceMetrics(m *metrics.Metrics) TripServiceOption {
	return func(s *TripService) { s.metrics = m }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger *slog.Logger) TripServiceOption {
	return func(s *TripService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewTripService creates a TripService over store, serving destinations from
// catalog.
func NewTripService(store storage.Store, catalog Catalog, opts ...TripServiceOption) *TripService {
	s := &TripService{
		store:   store,
		catalog: catalog,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListDestinations returns the whole catalog.
func (s *TripService) ListDestinations(ctx context.Context, req *connect.Request[pb.ListDestinationsRequest]) (*connect.Response[pb.ListDestinationsResponse], error) {
	destinations, err := s.catalog.Destinations(ctx)
	if err != nil {
		s.logger.Error("ListDestinations failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*pb.Destination, len(destinations))
	for i, d := range destinations {
		out[i] = destinationToProto(d)
	}
	return connect.NewResponse(&pb.ListDestinationsResponse{Destinations: out}), nil
}

// GetDestination returns one catalog entry.
func (s *TripService) GetDestination(ctx context.Context, req *connect.Request[pb.GetDestinationRequest]) (*connect.Response[pb.GetDestinationResponse], error) {
	d, err := s.destination(ctx, req.Msg.DestinationID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&pb.GetDestinationResponse{Destination: destinationToProto(d)}), nil
}

func (s *TripService) destination(ctx context.Context, destinationID string) (*models.Destination, error) {
	if destinationID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("destination ID is required"))
	}
	d, err := s.catalog.Destination(ctx, destinationID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if d == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("destination %s not found", destinationID))
	}
	return d, nil
}

// GetUserVote returns the caller's vote. The response has no vote when the
// caller has not voted.
func (s *TripService) GetUserVote(ctx context.Context, req *connect.Request[pb.GetUserVoteRequest]) (*connect.Response[pb.GetUserVoteResponse], error) {
	userID, err := s.self(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	vote, err := s.store.GetUserVote(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserVote failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&pb.GetUserVoteResponse{Vote: voteToProto(vote)}), nil
}

// self returns the caller, rejecting requests that name another user.
func (s *TripService) self(ctx context.Context, requested string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	if requested != "" && requested != userID {
		return "", connect.NewError(connect.CodePermissionDenied, errors.New("cannot act for another user"))
	}
	return userID, nil
}

// ListGroupVotes returns the votes of the group's members in cast order.
func (s *TripService) ListGroupVotes(ctx context.Context, req *connect.Request[pb.ListGroupVotesRequest]) (*connect.Response[pb.ListGroupVotesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	votes, err := s.store.GetVotesByGroupID(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListGroupVotes failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*pb.Vote, len(votes))
	for i, v := range votes {
		out[i] = voteToProto(v)
	}
	return connect.NewResponse(&pb.ListGroupVotesResponse{Votes: out}), nil
}

// CastVote replaces the caller's vote.
func (s *TripService) CastVote(ctx context.Context, req *connect.Request[pb.CastVoteRequest]) (*connect.Response[pb.CastVoteResponse], error) {
	userID, err := s.self(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CastVote request received", "user_id", userID, "destination_id", req.Msg.DestinationID)

	if _, err := s.destination(ctx, req.Msg.DestinationID); err != nil {
		return nil, err
	}
	if err := s.votingOpen(ctx, userID); err != nil {
		return nil, err
	}

	vote, err := s.store.CastVote(ctx, userID, req.Msg.DestinationID)
	if err != nil {
		s.logger.Error("CastVote failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.VoteCast()

	return connect.NewResponse(&pb.CastVoteResponse{Vote: voteToProto(vote)}), nil
}

// votingOpen refuses a cast once any of the user's groups has left voting. A
// vote counts in every group the user belongs to, so changing it would move
// a finalized tally.
func (s *TripService) votingOpen(ctx context.Context, userID string) error {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return connect.NewError(connect.CodeInternal, err)
	}
	for _, g := range groups {
		t, err := s.store.GetGroupTrip(ctx, g.ID)
		if err != nil {
			return connect.NewError(connect.CodeInternal, err)
		}
		if !trip.VotingOpen(t) {
			return connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("voting is closed for group %s", g.ID))
		}
	}
	return nil
}

// GetTally counts the group's votes over the whole catalog.
func (s *TripService) GetTally(ctx context.Context, req *connect.Request[pb.GetTallyRequest]) (*connect.Response[pb.GetTallyResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	votes, err := s.store.GetVotesByGroupID(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	destinations, err := s.catalog.Destinations(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	ids := make([]string, len(destinations))
	for i, d := range destinations {
		ids[i] = d.ID
	}
	values := make([]models.Vote, len(votes))
	for i, v := range votes {
		values[i] = *v
	}
	t := tally.Count(values, ids...)

	resp := &pb.GetTallyResponse{Total: t.Total()}
	for _, e := range t.Entries() {
		resp.Entries = append(resp.Entries, &pb.TallyEntry{
			DestinationID: e.DestinationID,
			Votes:         e.Votes,
			Percent:       e.Percent,
		})
	}
	if leader, ok := tally.PickWinner(t, s.tieBreak); ok {
		resp.LeaderID = leader
	}
	return connect.NewResponse(resp), nil
}

// GetTrip returns the group's trip, creating it on first access.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[pb.GetTripRequest]) (*connect.Response[pb.GetTripResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	t, err := s.store.GetGroupTrip(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if t == nil {
		if t, err = s.store.CreateTrip(ctx, req.Msg.GroupID); err != nil {
			s.logger.Error("Failed to create trip", "group_id", req.Msg.GroupID, "error", err)
			return nil, storeError(err)
		}
	}
	return connect.NewResponse(&pb.GetTripResponse{Trip: tripToProto(t)}), nil
}

// CreateTrip creates the group's trip, or returns the existing one.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[pb.CreateTripRequest]) (*connect.Response[pb.CreateTripResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	t, err := s.store.CreateTrip(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("CreateTrip failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	s.logger.Info("Trip ready", "group_id", t.GroupID, "trip_id", t.ID)
	return connect.NewResponse(&pb.CreateTripResponse{Trip: tripToProto(t)}), nil
}

// FinalizeVoting confirms the trip with the winning destination.
func (s *TripService) FinalizeVoting(ctx context.Context, req *connect.Request[pb.FinalizeVotingRequest]) (*connect.Response[pb.FinalizeVotingResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("FinalizeVoting request received", "group_id", req.Msg.GroupID, "user_id", userID)
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	confirmed, err := s.store.FinalizeVoting(ctx, req.Msg.GroupID)
	switch {
	case errors.Is(err, trip.ErrNoVotes):
		s.metrics.Finalized("no_votes")
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, trip.ErrInvalidTransition):
		s.metrics.Finalized("already_confirmed")
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	case err != nil:
		s.metrics.Finalized("failed")
		s.logger.Error("FinalizeVoting failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	case confirmed == nil:
		return nil, connect.NewError(connect.CodeNotFound, errGroupNotFound)
	}
	s.metrics.Finalized("confirmed")

	s.logger.Info("Voting finalized", "trip_id", confirmed.ID, "destination_id", confirmed.SelectedDestinationID)
	return connect.NewResponse(&pb.FinalizeVotingResponse{Trip: tripToProto(confirmed)}), nil
}

// UpdateParticipantStatus sets a member's confirmation status on a trip.
func (s *TripService) UpdateParticipantStatus(ctx context.Context, req *connect.Request[pb.UpdateParticipantStatusRequest]) (*connect.Response[pb.UpdateParticipantStatusResponse], error) {
	status := models.ParticipantStatus(req.Msg.Status)
	if !status.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown participant status %q", req.Msg.Status))
	}
	tripID, err := s.participantTrip(ctx, req.Msg.TripID, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateParticipantStatus(ctx, tripID, req.Msg.UserID, status)
	if err != nil {
		s.logger.Error("UpdateParticipantStatus failed", "trip_id", tripID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if updated == nil {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("trip not found"))
	}
	return connect.NewResponse(&pb.UpdateParticipantStatusResponse{Trip: tripToProto(updated)}), nil
}

// AddParticipants gives members of the trip's group a pending record when they
// have none. Records that already exist are left as they are.
func (s *TripService) AddParticipants(ctx context.Context, req *connect.Request[pb.AddParticipantsRequest]) (*connect.Response[pb.AddParticipantsResponse], error) {
	if len(req.Msg.UserIDs) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("at least one user ID is required"))
	}
	var tripID string
	for _, userID := range req.Msg.UserIDs {
		id, err := s.participantTrip(ctx, req.Msg.TripID, userID)
		if err != nil {
			return nil, err
		}
		tripID = id
	}

	updated, err := s.store.AddParticipants(ctx, tripID, req.Msg.UserIDs)
	if err != nil {
		s.logger.Error("AddParticipants failed", "trip_id", tripID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if updated == nil {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("trip not found"))
	}
	return connect.NewResponse(&pb.AddParticipantsResponse{Trip: tripToProto(updated)}), nil
}

// UpdatePaymentStatus sets a member's payment status on a trip.
func (s *TripService) UpdatePaymentStatus(ctx context.Context, req *connect.Request[pb.UpdatePaymentStatusRequest]) (*connect.Response[pb.UpdatePaymentStatusResponse], error) {
	status := models.PaymentStatus(req.Msg.Status)
	if !status.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown payment status %q", req.Msg.Status))
	}
	if req.Msg.Amount != nil && *req.Msg.Amount < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("payment amount must not be negative"))
	}
	tripID, err := s.participantTrip(ctx, req.Msg.TripID, req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateParticipantPaymentStatus(ctx, tripID, req.Msg.UserID, status, req.Msg.Amount)
	if err != nil {
		s.logger.Error("UpdatePaymentStatus failed", "trip_id", tripID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if updated == nil {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("trip not found"))
	}
	return connect.NewResponse(&pb.UpdatePaymentStatusResponse{Trip: tripToProto(updated)}), nil
}

// participantTrip checks that the caller and the target user both belong to
// the trip's group.
func (s *TripService) participantTrip(ctx context.Context, tripID, targetID string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	if tripID == "" || targetID == "" {
		return "", connect.NewError(connect.CodeInvalidArgument, errors.New("trip ID and user ID are required"))
	}

	t, err := s.store.GetTripByID(ctx, tripID)
	if err != nil {
		return "", connect.NewError(connect.CodeInternal, err)
	}
	if t == nil {
		return "", connect.NewError(connect.CodeNotFound, errors.New("trip not found"))
	}
	group, err := memberGroup(ctx, s.store, t.GroupID, userID)
	if err != nil {
		return "", err
	}
	if !group.HasMember(targetID) {
		return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user %s is not a member of the group", targetID))
	}
	return t.ID, nil
}

var _ tripapiconnect.TripServiceHandler = (*TripService)(nil)
