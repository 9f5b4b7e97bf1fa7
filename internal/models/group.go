package models

// Group represents people planning a trip together.
// Members only ever grow: there is no leave or removal flow.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Ski Crew").
	Name string

	// CreatorID is the user who created the group.
	CreatorID string

	// Members is the list of member user IDs in join order.
	// The creator is always Members[0].
	Members []string

	// JoinCode is a short uppercase token used to join the group.
	JoinCode string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is a member of the group.
func (g *Group) HasMember(userID string) bool {
	if g == nil {
		return false
	}
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
