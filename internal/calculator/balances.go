// Package calculator works out what each participant of a trip has paid and
// still owes for the selected destination.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmynk/tripplanner/internal/models"
)

// ErrNegativePrice is returned for a destination priced below zero.
var ErrNegativePrice = errors.New("price must not be negative")

// Balance is one participant's position against the package price.
type Balance struct {
	UserID      string
	Due         float64 // package price, or 0 for a participant who declined
	Paid        float64
	Outstanding float64 // Due - Paid, never negative
	Overpaid    float64 // Paid - Due, never negative
}

// Summary is the whole trip's position.
type Summary struct {
	Balances         []Balance // in participant order
	TotalDue         float64
	TotalPaid        float64
	TotalOutstanding float64
}

// TripBalances computes balances for a trip whose package costs price per
// person.
//
// Rules:
//   - Declined participants owe nothing. Pending and confirmed ones owe price.
//   - A recorded PaymentAmount counts as paid.
//   - Without an amount, paid means the full price and anything else means 0.
//
// Amounts are rounded to cents.
func TripBalances(price float64, participants []models.Participant) (*Summary, error) {
	if price < 0 || math.IsNaN(price) {
		return nil, fmt.Errorf("%w: %v", ErrNegativePrice, price)
	}

	s := &Summary{Balances: make([]Balance, 0, len(participants))}
	for _, p := range participants {
		b := Balance{UserID: p.UserID}
		if p.Status != models.ParticipantDeclined {
			b.Due = price
		}

		switch {
		case p.PaymentAmount != nil:
			if *p.PaymentAmount < 0 {
				return nil, fmt.Errorf("participant %s has a negative payment %v", p.UserID, *p.PaymentAmount)
			}
			b.Paid = *p.PaymentAmount
		case p.PaymentStatus == models.PaymentPaid:
			b.Paid = b.Due
		}

		b.Due = roundCents(b.Due)
		b.Paid = roundCents(b.Paid)
		if diff := roundCents(b.Due - b.Paid); diff > 0 {
			b.Outstanding = diff
		} else {
			b.Overpaid = -diff
		}

		s.TotalDue += b.Due
		s.TotalPaid += b.Paid
		s.TotalOutstanding += b.Outstanding
		s.Balances = append(s.Balances, b)
	}

	s.TotalDue = roundCents(s.TotalDue)
	s.TotalPaid = roundCents(s.TotalPaid)
	s.TotalOutstanding = roundCents(s.TotalOutstanding)
	return s, nil
}

// ForTrip prices a confirmed trip from its selected destination. It returns
// nil while the trip is still voting.
func ForTrip(t *models.Trip, destinations []*models.Destination) (*Summary, error) {
	if t == nil || t.SelectedDestinationID == "" {
		return nil, nil
	}
	for _, d := range destinations {
		if d != nil && d.ID == t.SelectedDestinationID {
			return TripBalances(d.Price, t.Participants)
		}
	}
	return nil, fmt.Errorf("selected destination %s is not in the catalog", t.SelectedDestinationID)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
