package tripapi

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorId"`
	Members   []string  `json:"members"`
	JoinCode  string    `json:"joinCode"`
	CreatedAt Timestamp `json:"createdAt"`
}

// CreateGroupRequest creates a group owned by the caller.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

// JoinGroupRequest adds the caller to the group with the given join code.
type JoinGroupRequest struct {
	JoinCode string `json:"joinCode"`
}

type JoinGroupResponse struct {
	Group *Group `json:"group"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupMembersRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupMembersResponse struct {
	Members []*User `json:"members"`
}
