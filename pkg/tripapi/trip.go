package tripapi

// Destination is one catalog entry. Dates are ISO 8601 days.
type Destination struct {
	ID            string  `json:"id"`
	Resort        string  `json:"resort"`
	Accommodation string  `json:"accommodation"`
	Price         float64 `json:"price"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
}

type Vote struct {
	UserID        string    `json:"userId"`
	DestinationID string    `json:"destinationId"`
	CastAt        Timestamp `json:"castAt"`
}

type Participant struct {
	UserID        string   `json:"userId"`
	Status        string   `json:"status"`
	PaymentStatus string   `json:"paymentStatus"`
	PaymentAmount *float64 `json:"paymentAmount,omitempty"`
}

type Trip struct {
	ID                    string         `json:"id"`
	GroupID               string         `json:"groupId"`
	SelectedDestinationID string         `json:"selectedDestinationId,omitempty"`
	Status                string         `json:"status"`
	Participants          []*Participant `json:"participants"`
	CreatedAt             Timestamp      `json:"createdAt"`
	UpdatedAt             Timestamp      `json:"updatedAt"`
}

type TallyEntry struct {
	DestinationID string `json:"destinationId"`
	Votes         int    `json:"votes"`
	Percent       int    `json:"percent"`
}

type ListDestinationsRequest struct{}

type ListDestinationsResponse struct {
	Destinations []*Destination `json:"destinations"`
}

type GetDestinationRequest struct {
	DestinationID string `json:"destinationId"`
}

type GetDestinationResponse struct {
	Destination *Destination `json:"destination"`
}

// GetUserVoteRequest reads a user's vote. An empty UserID means the caller.
type GetUserVoteRequest struct {
	UserID string `json:"userId,omitempty"`
}

// GetUserVoteResponse carries a nil Vote when the user has not voted.
type GetUserVoteResponse struct {
	Vote *Vote `json:"vote"`
}

type ListGroupVotesRequest struct {
	GroupID string `json:"groupId"`
}

type ListGroupVotesResponse struct {
	Votes []*Vote `json:"votes"`
}

// CastVoteRequest replaces the caller's vote. UserID, when set, must be
// the caller.
type CastVoteRequest struct {
	UserID        string `json:"userId,omitempty"`
	DestinationID string `json:"destinationId"`
}

type CastVoteResponse struct {
	Vote *Vote `json:"vote"`
}

type GetTallyRequest struct {
	GroupID string `json:"groupId"`
}

// GetTallyResponse lists every destination, including those without votes.
// LeaderID is empty when nobody has voted.
type GetTallyResponse struct {
	Entries  []*TallyEntry `json:"entries"`
	Total    int           `json:"total"`
	LeaderID string        `json:"leaderId,omitempty"`
}

// GetTripRequest reads the group's trip, creating it on first access.
type GetTripRequest struct {
	GroupID string `json:"groupId"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type CreateTripRequest struct {
	GroupID string `json:"groupId"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type FinalizeVotingRequest struct {
	GroupID string `json:"groupId"`
}

type FinalizeVotingResponse struct {
	Trip *Trip `json:"trip"`
}

type UpdateParticipantStatusRequest struct {
	TripID string `json:"tripId"`
	UserID string `json:"userId"`
	Status string `json:"status"`
}

type UpdateParticipantStatusResponse struct {
	Trip *Trip `json:"trip"`
}

// AddParticipantsRequest creates pending records for members of the trip's
// group that have none. Existing records are not changed.
type AddParticipantsRequest struct {
	TripID  string   `json:"tripId"`
	UserIDs []string `json:"userIds"`
}

type AddParticipantsResponse struct {
	Trip *Trip `json:"trip"`
}

// UpdatePaymentStatusRequest sets a participant's payment status. A nil
// Amount keeps the recorded amount.
type UpdatePaymentStatusRequest struct {
	TripID string   `json:"tripId"`
	UserID string   `json:"userId"`
	Status string   `json:"status"`
	Amount *float64 `json:"amount,omitempty"`
}

type UpdatePaymentStatusResponse struct {
	Trip *Trip `json:"trip"`
}
