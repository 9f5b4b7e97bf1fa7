package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/internal/joincode"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/storage"
	pb "github.com/mmynk/tripplanner/pkg/tripapi"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[pb.CreateGroupRequest]) (*connect.Response[pb.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group name is required"))
	}

	group := &models.Group{
		Name:      name,
		CreatorID: userID,
	}

	// Save to storage (generates ID, JoinCode and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group created", "group_id", group.ID, "join_code", group.JoinCode)

	return connect.NewResponse(&pb.CreateGroupResponse{Group: groupToProto(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[pb.GetGroupRequest]) (*connect.Response[pb.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&pb.GetGroupResponse{Group: groupToProto(group)}), nil
}

// JoinGroup adds the caller to the group with the given join code. Joining a
// group twice is a no-op. A new member of a group that already has a trip is
// added to it as a pending participant.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[pb.JoinGroupRequest]) (*connect.Response[pb.JoinGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	code := joincode.Normalize(req.Msg.JoinCode)
	slog.Info("JoinGroup request received", "join_code", code, "user_id", userID)

	if !joincode.Valid(code) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("invalid join code"))
	}

	group, err := s.store.GetGroupByJoinCode(ctx, code)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if group == nil {
		return nil, connect.NewError(connect.CodeNotFound, errGroupNotFound)
	}

	if !group.HasMember(userID) {
		if err := s.store.AddGroupMember(ctx, group.ID, userID); err != nil {
			slog.Error("JoinGroup failed", "group_id", group.ID, "error", err)
			return nil, storeError(err)
		}
		if err := s.addParticipant(ctx, group.ID, userID); err != nil {
			// Clients reconcile missing participants, so this is not fatal.
			slog.Warn("Failed to add new member to trip", "group_id", group.ID, "user_id", userID, "error", err)
		}
		slog.Info("Member joined group", "group_id", group.ID, "user_id", userID)
	}

	updated, err := s.store.GetGroupByID(ctx, group.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&pb.JoinGroupResponse{Group: groupToProto(updated)}), nil
}

func (s *GroupService) addParticipant(ctx context.Context, groupID, userID string) error {
	t, err := s.store.GetGroupTrip(ctx, groupID)
	if err != nil || t == nil {
		return err
	}
	_, err = s.store.AddParticipants(ctx, t.ID, []string{userID})
	return err
}

// ListMyGroups returns the groups the caller belongs to.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[pb.ListMyGroupsRequest]) (*connect.Response[pb.ListMyGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListMyGroups request received", "user_id", userID)

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListMyGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	protoGroups := make([]*pb.Group, len(groups))
	for i, group := range groups {
		protoGroups[i] = groupToProto(group)
	}

	slog.Info("ListMyGroups successful", "count", len(groups))

	return connect.NewResponse(&pb.ListMyGroupsResponse{Groups: protoGroups}), nil
}

// GetGroupMembers returns the members of a group in join order.
func (s *GroupService) GetGroupMembers(ctx context.Context, req *connect.Request[pb.GetGroupMembersRequest]) (*connect.Response[pb.GetGroupMembersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroupMembers request received", "group_id", req.Msg.GroupID)

	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	users, err := s.store.GetGroupMembers(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroupMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	members := make([]*pb.User, len(users))
	for i, u := range users {
		members[i] = userToProto(u)
	}

	return connect.NewResponse(&pb.GetGroupMembersResponse{Members: members}), nil
}

var _ tripapiconnect.GroupServiceHandler = (*GroupService)(nil)
