package models

// TripStatus is the coarse lifecycle state of a trip.
type TripStatus string

const (
	TripStatusVoting    TripStatus = "voting"
	TripStatusConfirmed TripStatus = "confirmed"
	// TripStatusCompleted is reserved. Nothing transitions a trip into it.
	TripStatusCompleted TripStatus = "completed"
)

// Valid reports whether s is a known trip status.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusVoting, TripStatusConfirmed, TripStatusCompleted:
		return true
	}
	return false
}

// ParticipantStatus is a member's confirmation state on a trip.
type ParticipantStatus string

const (
	ParticipantPending   ParticipantStatus = "pending"
	ParticipantConfirmed ParticipantStatus = "confirmed"
	ParticipantDeclined  ParticipantStatus = "declined"
)

// Valid reports whether s is a known participant status.
func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantPending, ParticipantConfirmed, ParticipantDeclined:
		return true
	}
	return false
}

// PaymentStatus is a member's payment state on a trip.
type PaymentStatus string

const (
	PaymentNotPaid       PaymentStatus = "not_paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentNotPaid, PaymentPartiallyPaid, PaymentPaid:
		return true
	}
	return false
}

// Trip is a group's trip. There is one trip per group, created lazily.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// GroupID is the group this trip belongs to.
	GroupID string

	// SelectedDestinationID is the winning destination.
	// Empty while Status is voting.
	SelectedDestinationID string

	// Participants holds one record per member, keyed by UserID.
	Participants []Participant

	Status TripStatus

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Clone returns a deep copy of the trip, or nil for a nil trip.
func (t *Trip) Clone() *Trip {
	if t == nil {
		return nil
	}
	c := *t
	if t.Participants != nil {
		c.Participants = make([]Participant, len(t.Participants))
		for i, p := range t.Participants {
			c.Participants[i] = p.Clone()
		}
	}
	return &c
}

// Participant is one member's record on a trip.
type Participant struct {
	UserID        string
	Status        ParticipantStatus
	PaymentStatus PaymentStatus

	// PaymentAmount is the amount paid so far, when known.
	PaymentAmount *float64
}

// NewPendingParticipant returns the record a member starts with.
func NewPendingParticipant(userID string) Participant {
	return Participant{
		UserID:        userID,
		Status:        ParticipantPending,
		PaymentStatus: PaymentNotPaid,
	}
}

// Clone returns a copy of the participant that shares no memory with p.
func (p Participant) Clone() Participant {
	if p.PaymentAmount != nil {
		amount := *p.PaymentAmount
		p.PaymentAmount = &amount
	}
	return p
}
