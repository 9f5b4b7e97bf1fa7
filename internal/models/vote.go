package models

// Vote is a user's live vote for a destination.
// A user has at most one Vote: casting a new one replaces the previous one.
type Vote struct {
	UserID        string
	DestinationID string

	// CastAt is the Unix millisecond timestamp of the vote.
	// The backend's value is authoritative.
	CastAt int64
}

// Clone returns a copy of the vote, or nil for a nil vote.
func (v *Vote) Clone() *Vote {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
