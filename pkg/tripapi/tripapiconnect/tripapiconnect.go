// Package tripapiconnect wires the tripapi messages to Connect handlers and
// clients for the tripplanner.v1 services.
package tripapiconnect

import (
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/pkg/tripapi"
)

const (
	AuthServiceName  = "tripplanner.v1.AuthService"
	GroupServiceName = "tripplanner.v1.GroupService"
	TripServiceName  = "tripplanner.v1.TripService"
)

// Fully-qualified procedure names, as used in URL paths and
// connect.Spec.Procedure.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	GroupServiceCreateGroupProcedure     = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure        = "/" + GroupServiceName + "/GetGroup"
	GroupServiceJoinGroupProcedure       = "/" + GroupServiceName + "/JoinGroup"
	GroupServiceListMyGroupsProcedure    = "/" + GroupServiceName + "/ListMyGroups"
	GroupServiceGetGroupMembersProcedure = "/" + GroupServiceName + "/GetGroupMembers"

	TripServiceListDestinationsProcedure        = "/" + TripServiceName + "/ListDestinations"
	TripServiceGetDestinationProcedure          = "/" + TripServiceName + "/GetDestination"
	TripServiceGetUserVoteProcedure             = "/" + TripServiceName + "/GetUserVote"
	TripServiceListGroupVotesProcedure          = "/" + TripServiceName + "/ListGroupVotes"
	TripServiceCastVoteProcedure                = "/" + TripServiceName + "/CastVote"
	TripServiceGetTallyProcedure                = "/" + TripServiceName + "/GetTally"
	TripServiceGetTripProcedure                 = "/" + TripServiceName + "/GetTrip"
	TripServiceCreateTripProcedure              = "/" + TripServiceName + "/CreateTrip"
	TripServiceFinalizeVotingProcedure          = "/" + TripServiceName + "/FinalizeVoting"
	TripServiceUpdateParticipantStatusProcedure = "/" + TripServiceName + "/UpdateParticipantStatus"
	TripServiceAddParticipantsProcedure         = "/" + TripServiceName + "/AddParticipants"
	TripServiceUpdatePaymentStatusProcedure     = "/" + TripServiceName + "/UpdatePaymentStatus"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(tripapi.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(tripapi.Codec{})}, opts...)
}

func trimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
