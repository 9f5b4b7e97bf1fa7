// Package client talks to the trip planner server over Connect. A Client
// satisfies session.DataAccess, so a session can run against a remote server
// the same way it runs against a local store.
package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/cenkalti/backoff/v5"

	"github.com/mmynk/tripplanner/internal/middleware"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/session"
	"github.com/mmynk/tripplanner/internal/trip"
	pb "github.com/mmynk/tripplanner/pkg/tripapi"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

// readAttempts bounds how often a read is retried while the server is
// unavailable.
const readAttempts = 3

// Client is a signed-in connection to the server.
type Client struct {
	auth   tripapiconnect.AuthServiceClient
	groups tripapiconnect.GroupServiceClient
	trips  tripapiconnect.TripServiceClient

	retryDelay time.Duration
}

// New creates a client for the server at baseURL. The token, if any, is sent
// as a bearer token on every call.
func New(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts := connect.WithInterceptors(middleware.BearerAuth(token))
	return &Client{
		auth:       tripapiconnect.NewAuthServiceClient(httpClient, baseURL, opts),
		groups:     tripapiconnect.NewGroupServiceClient(httpClient, baseURL, opts),
		trips:      tripapiconnect.NewTripServiceClient(httpClient, baseURL, opts),
		retryDelay: 200 * time.Millisecond,
	}
}

// read retries op while the server reports itself unavailable.
func read[T any](ctx context.Context, c *Client, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && connect.CodeOf(err) != connect.CodeUnavailable {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(backoff.NewConstantBackOff(c.retryDelay)), backoff.WithMaxTries(readAttempts))
}

// notFound reports whether err means the record does not exist.
func notFound(err error) bool {
	return connect.CodeOf(err) == connect.CodeNotFound
}

// Register creates an account and returns it with a session token.
func (c *Client) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	resp, err := c.auth.Register(ctx, connect.NewRequest(&pb.RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
	}))
	if err != nil {
		return nil, "", err
	}
	return userFromProto(resp.Msg.User), resp.Msg.Token, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	resp, err := c.auth.Login(ctx, connect.NewRequest(&pb.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return nil, "", err
	}
	return userFromProto(resp.Msg.User), resp.Msg.Token, nil
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.GetCurrentUserResponse], error) {
		return c.auth.GetCurrentUser(ctx, connect.NewRequest(&pb.GetCurrentUserRequest{}))
	})
	if err != nil {
		return nil, err
	}
	return userFromProto(resp.Msg.User), nil
}

// CreateGroup creates a group owned by the caller.
func (c *Client) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	resp, err := c.groups.CreateGroup(ctx, connect.NewRequest(&pb.CreateGroupRequest{Name: name}))
	if err != nil {
		return nil, err
	}
	return groupFromProto(resp.Msg.Group), nil
}

// JoinGroup adds the caller to the group using code.
func (c *Client) JoinGroup(ctx context.Context, code string) (*models.Group, error) {
	resp, err := c.groups.JoinGroup(ctx, connect.NewRequest(&pb.JoinGroupRequest{JoinCode: code}))
	if err != nil {
		return nil, err
	}
	return groupFromProto(resp.Msg.Group), nil
}

// ListMyGroups returns the caller's groups.
func (c *Client) ListMyGroups(ctx context.Context) ([]*models.Group, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.ListMyGroupsResponse], error) {
		return c.groups.ListMyGroups(ctx, connect.NewRequest(&pb.ListMyGroupsRequest{}))
	})
	if err != nil {
		return nil, err
	}
	groups := make([]*models.Group, len(resp.Msg.Groups))
	for i, g := range resp.Msg.Groups {
		groups[i] = groupFromProto(g)
	}
	return groups, nil
}

// GetGroupByID returns nil when the group does not exist.
func (c *Client) GetGroupByID(ctx context.Context, groupID string) (*models.Group, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.GetGroupResponse], error) {
		return c.groups.GetGroup(ctx, connect.NewRequest(&pb.GetGroupRequest{GroupID: groupID}))
	})
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return groupFromProto(resp.Msg.Group), nil
}

func (c *Client) GetGroupMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.GetGroupMembersResponse], error) {
		return c.groups.GetGroupMembers(ctx, connect.NewRequest(&pb.GetGroupMembersRequest{GroupID: groupID}))
	})
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, len(resp.Msg.Members))
	for i, u := range resp.Msg.Members {
		users[i] = userFromProto(u)
	}
	return users, nil
}

func (c *Client) GetAllDestinations(ctx context.Context) ([]*models.Destination, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.ListDestinationsResponse], error) {
		return c.trips.ListDestinations(ctx, connect.NewRequest(&pb.ListDestinationsRequest{}))
	})
	if err != nil {
		return nil, err
	}
	destinations := make([]*models.Destination, len(resp.Msg.Destinations))
	for i, d := range resp.Msg.Destinations {
		destinations[i] = destinationFromProto(d)
	}
	return destinations, nil
}

// GetDestinationByID returns nil when the destination does not exist.
func (c *Client) GetDestinationByID(ctx context.Context, destinationID string) (*models.Destination, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.GetDestinationResponse], error) {
		return c.trips.GetDestination(ctx, connect.NewRequest(&pb.GetDestinationRequest{DestinationID: destinationID}))
	})
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return destinationFromProto(resp.Msg.Destination), nil
}

// GetUserVote returns nil when the user has not voted. The server only
// answers for the signed-in user.
func (c *Client) GetUserVote(ctx context.Context, userID string) (*models.Vote, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.GetUserVoteResponse], error) {
		return c.trips.GetUserVote(ctx, connect.NewRequest(&pb.GetUserVoteRequest{UserID: userID}))
	})
	if err != nil {
		return nil, err
	}
	return voteFromProto(resp.Msg.Vote), nil
}

func (c *Client) GetVotesByGroupID(ctx context.Context, groupID string) ([]*models.Vote, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.ListGroupVotesResponse], error) {
		return c.trips.ListGroupVotes(ctx, connect.NewRequest(&pb.ListGroupVotesRequest{GroupID: groupID}))
	})
	if err != nil {
		return nil, err
	}
	votes := make([]*models.Vote, 0, len(resp.Msg.Votes))
	for _, v := range resp.Msg.Votes {
		if v != nil {
			votes = append(votes, voteFromProto(v))
		}
	}
	return votes, nil
}

// CastVote is not retried: the server may have applied a call whose response
// was lost.
func (c *Client) CastVote(ctx context.Context, userID, destinationID string) (*models.Vote, error) {
	resp, err := c.trips.CastVote(ctx, connect.NewRequest(&pb.CastVoteRequest{
		UserID:        userID,
		DestinationID: destinationID,
	}))
	if err != nil {
		return nil, err
	}
	return voteFromProto(resp.Msg.Vote), nil
}

// Tally is the server's count of a group's votes.
type Tally struct {
	Entries  []*pb.TallyEntry
	Total    int
	LeaderID string
}

// GetTally returns the server's tally for the group.
func (c *Client) GetTally(ctx context.Context, groupID string) (*Tally, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.GetTallyResponse], error) {
		return c.trips.GetTally(ctx, connect.NewRequest(&pb.GetTallyRequest{GroupID: groupID}))
	})
	if err != nil {
		return nil, err
	}
	return &Tally{Entries: resp.Msg.Entries, Total: resp.Msg.Total, LeaderID: resp.Msg.LeaderID}, nil
}

// GetGroupTrip returns the group's trip. The server creates it on first
// access, so a nil trip means the group does not exist.
func (c *Client) GetGroupTrip(ctx context.Context, groupID string) (*models.Trip, error) {
	resp, err := read(ctx, c, func() (*connect.Response[pb.GetTripResponse], error) {
		return c.trips.GetTrip(ctx, connect.NewRequest(&pb.GetTripRequest{GroupID: groupID}))
	})
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tripFromProto(resp.Msg.Trip), nil
}

func (c *Client) CreateTrip(ctx context.Context, groupID string) (*models.Trip, error) {
	resp, err := c.trips.CreateTrip(ctx, connect.NewRequest(&pb.CreateTripRequest{GroupID: groupID}))
	if err != nil {
		return nil, err
	}
	return tripFromProto(resp.Msg.Trip), nil
}

// FinalizeVoting returns trip.ErrNoVotes when the group has no votes and
// trip.ErrInvalidTransition when the trip is already confirmed.
func (c *Client) FinalizeVoting(ctx context.Context, groupID string) (*models.Trip, error) {
	resp, err := c.trips.FinalizeVoting(ctx, connect.NewRequest(&pb.FinalizeVotingRequest{GroupID: groupID}))
	if err != nil {
		var cerr *connect.Error
		if errors.As(err, &cerr) && cerr.Code() == connect.CodeFailedPrecondition {
			if strings.Contains(cerr.Message(), trip.ErrNoVotes.Error()) {
				return nil, trip.ErrNoVotes
			}
			return nil, errors.Join(trip.ErrInvalidTransition, err)
		}
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return tripFromProto(resp.Msg.Trip), nil
}

// UpdateParticipantStatus returns nil when the trip does not exist.
func (c *Client) UpdateParticipantStatus(ctx context.Context, tripID, userID string, status models.ParticipantStatus) (*models.Trip, error) {
	resp, err := c.trips.UpdateParticipantStatus(ctx, connect.NewRequest(&pb.UpdateParticipantStatusRequest{
		TripID: tripID,
		UserID: userID,
		Status: string(status),
	}))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tripFromProto(resp.Msg.Trip), nil
}

// AddParticipants returns nil when the trip does not exist.
func (c *Client) AddParticipants(ctx context.Context, tripID string, userIDs []string) (*models.Trip, error) {
	resp, err := c.trips.AddParticipants(ctx, connect.NewRequest(&pb.AddParticipantsRequest{
		TripID:  tripID,
		UserIDs: userIDs,
	}))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tripFromProto(resp.Msg.Trip), nil
}

// UpdateParticipantPaymentStatus returns nil when the trip does not exist.
func (c *Client) UpdateParticipantPaymentStatus(ctx context.Context, tripID, userID string, status models.PaymentStatus, amount *float64) (*models.Trip, error) {
	resp, err := c.trips.UpdatePaymentStatus(ctx, connect.NewRequest(&pb.UpdatePaymentStatusRequest{
		TripID: tripID,
		UserID: userID,
		Status: string(status),
		Amount: amount,
	}))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tripFromProto(resp.Msg.Trip), nil
}

var _ session.DataAccess = (*Client)(nil)
