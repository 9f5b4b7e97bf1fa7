package tripapiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/pkg/tripapi"
)

// GroupServiceClient is a client for the tripplanner.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[tripapi.CreateGroupRequest]) (*connect.Response[tripapi.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[tripapi.GetGroupRequest]) (*connect.Response[tripapi.GetGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[tripapi.JoinGroupRequest]) (*connect.Response[tripapi.JoinGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[tripapi.ListMyGroupsRequest]) (*connect.Response[tripapi.ListMyGroupsResponse], error)
	GetGroupMembers(context.Context, *connect.Request[tripapi.GetGroupMembersRequest]) (*connect.Response[tripapi.GetGroupMembersResponse], error)
}

// NewGroupServiceClient constructs a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:     connect.NewClient[tripapi.CreateGroupRequest, tripapi.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:        connect.NewClient[tripapi.GetGroupRequest, tripapi.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		joinGroup:       connect.NewClient[tripapi.JoinGroupRequest, tripapi.JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		listMyGroups:    connect.NewClient[tripapi.ListMyGroupsRequest, tripapi.ListMyGroupsResponse](httpClient, baseURL+GroupServiceListMyGroupsProcedure, opts...),
		getGroupMembers: connect.NewClient[tripapi.GetGroupMembersRequest, tripapi.GetGroupMembersResponse](httpClient, baseURL+GroupServiceGetGroupMembersProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup     *connect.Client[tripapi.CreateGroupRequest, tripapi.CreateGroupResponse]
	getGroup        *connect.Client[tripapi.GetGroupRequest, tripapi.GetGroupResponse]
	joinGroup       *connect.Client[tripapi.JoinGroupRequest, tripapi.JoinGroupResponse]
	listMyGroups    *connect.Client[tripapi.ListMyGroupsRequest, tripapi.ListMyGroupsResponse]
	getGroupMembers *connect.Client[tripapi.GetGroupMembersRequest, tripapi.GetGroupMembersResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[tripapi.CreateGroupRequest]) (*connect.Response[tripapi.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[tripapi.GetGroupRequest]) (*connect.Response[tripapi.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[tripapi.JoinGroupRequest]) (*connect.Response[tripapi.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[tripapi.ListMyGroupsRequest]) (*connect.Response[tripapi.ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupMembers(ctx context.Context, req *connect.Request[tripapi.GetGroupMembersRequest]) (*connect.Response[tripapi.GetGroupMembersResponse], error) {
	return c.getGroupMembers.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the GroupService server.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[tripapi.CreateGroupRequest]) (*connect.Response[tripapi.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[tripapi.GetGroupRequest]) (*connect.Response[tripapi.GetGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[tripapi.JoinGroupRequest]) (*connect.Response[tripapi.JoinGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[tripapi.ListMyGroupsRequest]) (*connect.Response[tripapi.ListMyGroupsResponse], error)
	GetGroupMembers(context.Context, *connect.Request[tripapi.GetGroupMembersRequest]) (*connect.Response[tripapi.GetGroupMembersResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroup := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroup := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	joinGroup := connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...)
	listMyGroups := connect.NewUnaryHandler(GroupServiceListMyGroupsProcedure, svc.ListMyGroups, opts...)
	getGroupMembers := connect.NewUnaryHandler(GroupServiceGetGroupMembersProcedure, svc.GetGroupMembers, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroup.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroup.ServeHTTP(w, r)
		case GroupServiceJoinGroupProcedure:
			joinGroup.ServeHTTP(w, r)
		case GroupServiceListMyGroupsProcedure:
			listMyGroups.ServeHTTP(w, r)
		case GroupServiceGetGroupMembersProcedure:
			getGroupMembers.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[tripapi.CreateGroupRequest]) (*connect.Response[tripapi.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.GroupService.CreateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[tripapi.GetGroupRequest]) (*connect.Response[tripapi.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.GroupService.GetGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) JoinGroup(context.Context, *connect.Request[tripapi.JoinGroupRequest]) (*connect.Response[tripapi.JoinGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.GroupService.JoinGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListMyGroups(context.Context, *connect.Request[tripapi.ListMyGroupsRequest]) (*connect.Response[tripapi.ListMyGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.GroupService.ListMyGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroupMembers(context.Context, *connect.Request[tripapi.GetGroupMembersRequest]) (*connect.Response[tripapi.GetGroupMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("tripplanner.v1.GroupService.GetGroupMembers is not implemented"))
}
