package tripapiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/pkg/tripapi"
)

// TripServiceClient is a client for the tripplanner.v1.TripService service.
type TripServiceClient interface {
	ListDestinations(context.Context, *connect.Request[tripapi.ListDestinationsRequest]) (*connect.Response[tripapi.ListDestinationsResponse], error)
	GetDestination(context.Context, *connect.Request[tripapi.GetDestinationRequest]) (*connect.Response[tripapi.GetDestinationResponse], error)
	GetUserVote(context.Context, *connect.Request[tripapi.GetUserVoteRequest]) (*connect.Response[tripapi.GetUserVoteResponse], error)
	ListGroupVotes(context.Context, *connect.Request[tripapi.ListGroupVotesRequest]) (*connect.Response[tripapi.ListGroupVotesResponse], error)
	CastVote(context.Context, *connect.Request[tripapi.CastVoteRequest]) (*connect.Response[tripapi.CastVoteResponse], error)
	GetTally(context.Context, *connect.Request[tripapi.GetTallyRequest]) (*connect.Response[tripapi.GetTallyResponse], error)
	GetTrip(context.Context, *connect.Request[tripapi.GetTripRequest]) (*connect.Response[tripapi.GetTripResponse], error)
	CreateTrip(context.Context, *connect.Request[tripapi.CreateTripRequest]) (*connect.Response[tripapi.CreateTripResponse], error)
	FinalizeVoting(context.Context, *connect.Request[tripapi.FinalizeVotingRequest]) (*connect.Response[tripapi.FinalizeVotingResponse], error)
	UpdateParticipantStatus(context.Context, *connect.Request[tripapi.UpdateParticipantStatusRequest]) (*connect.Response[tripapi.UpdateParticipantStatusResponse], error)
	AddParticipants(context.Context, *connect.Request[tripapi.AddParticipantsRequest]) (*connect.Response[tripapi.AddParticipantsResponse], error)
	UpdatePaymentStatus(context.Context, *connect.Request[tripapi.UpdatePaymentStatusRequest]) (*connect.Response[tripapi.UpdatePaymentStatusResponse], error)
}

// NewTripServiceClient constructs a client for the TripService at baseURL.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &tripServiceClient{
		listDestinations:        connect.NewClient[tripapi.ListDestinationsRequest, tripapi.ListDestinationsResponse](httpClient, baseURL+TripServiceListDestinationsProcedure, opts...),
		getDestination:          connect.NewClient[tripapi.GetDestinationRequest, tripapi.GetDestinationResponse](httpClient, baseURL+TripServiceGetDestinationProcedure, opts...),
		getUserVote:             connect.NewClient[tripapi.GetUserVoteRequest, tripapi.GetUserVoteResponse](httpClient, baseURL+TripServiceGetUserVoteProcedure, opts...),
		listGroupVotes:          connect.NewClient[tripapi.ListGroupVotesRequest, tripapi.ListGroupVotesResponse](httpClient, baseURL+TripServiceListGroupVotesProcedure, opts...),
		castVote:                connect.NewClient[tripapi.CastVoteRequest, tripapi.CastVoteResponse](httpClient, baseURL+TripServiceCastVoteProcedure, opts...),
		getTally:                connect.NewClient[tripapi.GetTallyRequest, tripapi.GetTallyResponse](httpClient, baseURL+TripServiceGetTallyProcedure, opts...),
		getTrip:                 connect.NewClient[tripapi.GetTripRequest, tripapi.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		createTrip:              connect.NewClient[tripapi.CreateTripRequest, tripapi.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		finalizeVoting:          connect.NewClient[tripapi.FinalizeVotingRequest, tripapi.FinalizeVotingResponse](httpClient, baseURL+TripServiceFinalizeVotingProcedure, opts...),
		updateParticipantStatus: connect.NewClient[tripapi.UpdateParticipantStatusRequest, tripapi.UpdateParticipantStatusResponse](httpClient, baseURL+TripServiceUpdateParticipantStatusProcedure, opts...),
		addParticipants:         connect.NewClient[tripapi.AddParticipantsRequest, tripapi.AddParticipantsResponse](httpClient, baseURL+TripServiceAddParticipantsProcedure, opts...),
		updatePaymentStatus:     connect.NewClient[tripapi.UpdatePaymentStatusRequest, tripapi.UpdatePaymentStatusResponse](httpClient, baseURL+TripServiceUpdatePaymentStatusProcedure, opts...),
	}
}

type tripServiceClient struct {
	listDestinations        *connect.Client[tripapi.ListDestinationsRequest, tripapi.ListDestinationsResponse]
	getDestination          *connect.Client[tripapi.GetDestinationRequest, tripapi.GetDestinationResponse]
	getUserVote             *connect.Client[tripapi.GetUserVoteRequest, tripapi.GetUserVoteResponse]
	listGroupVotes          *connect.Client[tripapi.ListGroupVotesRequest, tripapi.ListGroupVotesResponse]
	castVote                *connect.Client[tripapi.CastVoteRequest, tripapi.CastVoteResponse]
	getTally                *connect.Client[tripapi.GetTallyRequest, tripapi.GetTallyResponse]
	getTrip                 *connect.Client[tripapi.GetTripRequest, tripapi.GetTripResponse]
	createTrip              *connect.Client[tripapi.CreateTripRequest, tripapi.CreateTripResponse]
	finalizeVoting          *connect.Client[tripapi.FinalizeVotingRequest, tripapi.FinalizeVotingResponse]
	updateParticipantStatus *connect.Client[tripapi.UpdateParticipantStatusRequest, tripapi.UpdateParticipantStatusResponse]
	addParticipants         *connect.Client[tripapi.AddParticipantsRequest, tripapi.AddParticipantsResponse]
	updatePaymentStatus     *connect.Client[tripapi.UpdatePaymentStatusRequest, tripapi.UpdatePaymentStatusResponse]
}

func (c *tripServiceClient) ListDestinations(ctx context.Context, req *connect.Request[tripapi.ListDestinationsRequest]) (*connect.Response[tripapi.ListDestinationsResponse], error) {
	return c.listDestinations.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetDestination(ctx context.Context, req *connect.Request[tripapi.GetDestinationRequest]) (*connect.Response[tripapi.GetDestinationResponse], error) {
	return c.getDestination.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetUserVote(ctx context.Context, req *connect.Request[tripapi.GetUserVoteRequest]) (*connect.Response[tripapi.GetUserVoteResponse], error) {
	return c.getUserVote.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListGroupVotes(ctx context.Context, req *connect.Request[tripapi.ListGroupVotesRequest]) (*connect.Response[tripapi.ListGroupVotesResponse], error) {
	return c.listGroupVotes.CallUnary(ctx, req)
}

func (c *tripServiceClient) CastVote(ctx context.Context, req *connect.Request[tripapi.CastVoteRequest]) (*connect.Response[tripapi.CastVoteResponse], error) {
	return c.castVote.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTally(ctx context.Context, req *connect.Request[tripapi.GetTallyRequest]) (*connect.Response[tripapi.GetTallyResponse], error) {
	return c.getTally.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[tripapi.GetTripRequest]) (*connect.Response[tripapi.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[tripapi.CreateTripRequest]) (*connect.Response[tripapi.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) FinalizeVoting(ctx context.Context, req *connect.Request[tripapi.FinalizeVotingRequest]) (*connect.Response[tripapi.FinalizeVotingResponse], error) {
	return c.finalizeVoting.CallUnary(ctx, req)
}

func (c *tripServiceClient) UpdateParticipantStatus(ctx context.Context, req *connect.Request[tripapi.UpdateParticipantStatusRequest]) (*connect.Response[tripapi.UpdateParticipantStatusResponse], error) {
	return c.updateParticipantStatus.CallUnary(ctx, req)
}

func (c *tripServiceClient) AddParticipants(ctx context.Context, req *connect.Request[tripapi.AddParticipantsRequest]) (*connect.Response[tripapi.AddParticipantsResponse], error) {
	return c.addParticipants.CallUnary(ctx, req)
}

func (c *tripServiceClient) UpdatePaymentStatus(ctx context.Context, req *connect.Request[tripapi.UpdatePaymentStatusRequest]) (*connect.Response[tripapi.UpdatePaymentStatusResponse], error) {
	return c.updatePaymentStatus.CallUnary(ctx, req)
}

// TripServiceHandler is implemented by the TripService server.
type TripServiceHandler interface {
	ListDestinations(context.Context, *connect.Request[tripapi.ListDestinationsRequest]) (*connect.Response[tripapi.ListDestinationsResponse], error)
	GetDestination(context.Context, *connect.Request[tripapi.GetDestinationRequest]) (*connect.Response[tripapi.GetDestinationResponse], error)
	GetUserVote(context.Context, *connect.Request[tripapi.GetUserVoteRequest]) (*connect.Response[tripapi.GetUserVoteResponse], error)
	ListGroupVotes(context.Context, *connect.Request[tripapi.ListGroupVotesRequest]) (*connect.Response[tripapi.ListGroupVotesResponse], error)
	CastVote(context.Context, *connect.Request[tripapi.CastVoteRequest]) (*connect.Response[tripapi.CastVoteResponse], error)
	GetTally(context.Context, *connect.Request[tripapi.GetTallyRequest]) (*connect.Response[tripapi.GetTallyResponse], error)
	GetTrip(context.Context, *connect.Request[tripapi.GetTripRequest]) (*connect.Response[tripapi.GetTripResponse], error)
	CreateTrip(context.Context, *connect.Request[tripapi.CreateTripRequest]) (*connect.Response[tripapi.CreateTripResponse], error)
	FinalizeVoting(context.Context, *connect.Request[tripapi.FinalizeVotingRequest]) (*connect.Response[tripapi.FinalizeVotingResponse], error)
	UpdateParticipantStatus(context.Context, *connect.Request[tripapi.UpdateParticipantStatusRequest]) (*connect.Response[tripapi.UpdateParticipantStatusResponse], error)
	AddParticipants(context.Context, *connect.Request[tripapi.AddParticipantsRequest]) (*connect.Response[tripapi.AddParticipantsResponse], error)
	UpdatePaymentStatus(context.Context, *connect.Request[tripapi.UpdatePaymentStatusRequest]) (*connect.Response[tripapi.UpdatePaymentStatusResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listDestinations := connect.NewUnaryHandler(TripServiceListDestinationsProcedure, svc.ListDestinations, opts...)
	getDestination := connect.NewUnaryHandler(TripServiceGetDestinationProcedure, svc.GetDestination, opts...)
	getUserVote := connect.NewUnaryHandler(TripServiceGetUserVoteProcedure, svc.GetUserVote, opts...)
	listGroupVotes := connect.NewUnaryHandler(TripServiceListGroupVotesProcedure, svc.ListGroupVotes, opts...)
	castVote := connect.NewUnaryHandler(TripServiceCastVoteProcedure, svc.CastVote, opts...)
	getTally := connect.NewUnaryHandler(TripServiceGetTallyProcedure, svc.GetTally, opts...)
	getTrip := connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...)
	createTrip := connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...)
	finalizeVoting := connect.NewUnaryHandler(TripServiceFinalizeVotingProcedure, svc.FinalizeVoting, opts...)
	updateParticipantStatus := connect.NewUnaryHandler(TripServiceUpdateParticipantStatusProcedure, svc.UpdateParticipantStatus, opts...)
	addParticipants := connect.NewUnaryHandler(TripServiceAddParticipantsProcedure, svc.AddParticipants, opts...)
	updatePaymentStatus := connect.NewUnaryHandler(TripServiceUpdatePaymentStatusProcedure, svc.UpdatePaymentStatus, opts...)
	return "/" + TripServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TripServiceListDestinationsProcedure:
			listDestinations.ServeHTTP(w, r)
		case TripServiceGetDestinationProcedure:
			getDestination.ServeHTTP(w, r)
		case TripServiceGetUserVoteProcedure:
			getUserVote.ServeHTTP(w, r)
		case TripServiceListGroupVotesProcedure:
			listGroupVotes.ServeHTTP(w, r)
		case TripServiceCastVoteProcedure:
			castVote.ServeHTTP(w, r)
		case TripServiceGetTallyProcedure:
			getTally.ServeHTTP(w, r)
		case TripServiceGetTripProcedure:
			getTrip.ServeHTTP(w, r)
		case TripServiceCreateTripProcedure:
			createTrip.ServeHTTP(w, r)
		case TripServiceFinalizeVotingProcedure:
			finalizeVoting.ServeHTTP(w, r)
		case TripServiceUpdateParticipantStatusProcedure:
			updateParticipantStatus.ServeHTTP(w, r)
		case TripServiceAddParticipantsProcedure:
			addParticipants.ServeHTTP(w, r)
		case TripServiceUpdatePaymentStatusProcedure:
			updatePaymentStatus.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedTripServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTripServiceHandler struct{}

func (UnimplementedTripServiceHandler) ListDestinations(context.Context, *connect.Request[tripapi.ListDestinationsRequest]) (*connect.Response[tripapi.ListDestinationsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.ListDestinations is not implemented"))
}

func (UnimplementedTripServiceHandler) GetDestination(context.Context, *connect.Request[tripapi.GetDestinationRequest]) (*connect.Response[tripapi.GetDestinationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.GetDestination is not implemented"))
}

func (UnimplementedTripServiceHandler) GetUserVote(context.Context, *connect.Request[tripapi.GetUserVoteRequest]) (*connect.Response[tripapi.GetUserVoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.GetUserVote is not implemented"))
}

func (UnimplementedTripServiceHandler) ListGroupVotes(context.Context, *connect.Request[tripapi.ListGroupVotesRequest]) (*connect.Response[tripapi.ListGroupVotesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.ListGroupVotes is not implemented"))
}

func (UnimplementedTripServiceHandler) CastVote(context.Context, *connect.Request[tripapi.CastVoteRequest]) (*connect.Response[tripapi.CastVoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.CastVote is not implemented"))
}

func (UnimplementedTripServiceHandler) GetTally(context.Context, *connect.Request[tripapi.GetTallyRequest]) (*connect.Response[tripapi.GetTallyResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.GetTally is not implemented"))
}

func (UnimplementedTripServiceHandler) GetTrip(context.Context, *connect.Request[tripapi.GetTripRequest]) (*connect.Response[tripapi.GetTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.GetTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) CreateTrip(context.Context, *connect.Request[tripapi.CreateTripRequest]) (*connect.Response[tripapi.CreateTripResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.CreateTrip is not implemented"))
}

func (UnimplementedTripServiceHandler) FinalizeVoting(context.Context, *connect.Request[tripapi.FinalizeVotingRequest]) (*connect.Response[tripapi.FinalizeVotingResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.FinalizeVoting is not implemented"))
}

func (UnimplementedTripServiceHandler) UpdateParticipantStatus(context.Context, *connect.Request[tripapi.UpdateParticipantStatusRequest]) (*connect.Response[tripapi.UpdateParticipantStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.UpdateParticipantStatus is not implemented"))
}

func (UnimplementedTripServiceHandler) AddParticipants(context.Context, *connect.Request[tripapi.AddParticipantsRequest]) (*connect.Response[tripapi.AddParticipantsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.AddParticipants is not implemented"))
}

func (UnimplementedTripServiceHandler) UpdatePaymentStatus(context.Context, *connect.Request[tripapi.UpdatePaymentStatusRequest]) (*connect.Response[tripapi.UpdatePaymentStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.TripService.UpdatePaymentStatus is not implemented"))
}
