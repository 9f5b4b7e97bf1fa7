package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/internal/auth"
	"github.com/mmynk/tripplanner/internal/middleware"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/storage"
)

var (
	errNotMember     = errors.New("not a member of this group")
	errGroupNotFound = errors.New("group not found")
)

// callerID returns the authenticated user or CodeUnauthenticated.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// memberGroup loads groupID and checks that userID belongs to it.
func memberGroup(ctx context.Context, groups storage.GroupStore, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group ID is required"))
	}
	group, err := groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if group == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%w: %s", errGroupNotFound, groupID))
	}
	if !group.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// storeError maps a storage error to a Connect error.
func storeError(err error) *connect.Error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
