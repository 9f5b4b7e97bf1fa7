package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/tripplanner/internal/models"
)

func amount(v float64) *float64 { return &v }

func TestTripBalances(t *testing.T) {
	tests := []struct {
		name         string
		price        float64
		participants []models.Participant
		want         []Balance
		wantTotal    float64
	}{
		{
			name:  "pending members owe the full price",
			price: 1200,
			participants: []models.Participant{
				models.NewPendingParticipant("alice"),
				models.NewPendingParticipant("bob"),
			},
			want: []Balance{
				{UserID: "alice", Due: 1200, Outstanding: 1200},
				{UserID: "bob", Due: 1200, Outstanding: 1200},
			},
			wantTotal: 2400,
		},
		{
			name:  "declined owes nothing",
			price: 1200,
			participants: []models.Participant{
				{UserID: "carol", Status: models.ParticipantDeclined, PaymentStatus: models.PaymentNotPaid},
			},
			want:      []Balance{{UserID: "carol"}},
			wantTotal: 0,
		},
		{
			name:  "recorded amounts",
			price: 999.99,
			participants: []models.Participant{
				{UserID: "alice", Status: models.ParticipantConfirmed, PaymentStatus: models.PaymentPartiallyPaid, PaymentAmount: amount(333.333)},
				{UserID: "bob", Status: models.ParticipantConfirmed, PaymentStatus: models.PaymentPaid, PaymentAmount: amount(1000)},
			},
			want: []Balance{
				{UserID: "alice", Due: 999.99, Paid: 333.33, Outstanding: 666.66},
				{UserID: "bob", Due: 999.99, Paid: 1000, Overpaid: 0.01},
			},
			wantTotal: 666.66,
		},
		{
			name:  "paid without amount means the full price",
			price: 850,
			participants: []models.Participant{
				{UserID: "alice", Status: models.ParticipantConfirmed, PaymentStatus: models.PaymentPaid},
				{UserID: "bob", Status: models.ParticipantConfirmed, PaymentStatus: models.PaymentPartiallyPaid},
			},
			want: []Balance{
				{UserID: "alice", Due: 850, Paid: 850},
				{UserID: "bob", Due: 850, Outstanding: 850},
			},
			wantTotal: 850,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TripBalances(tt.price, tt.participants)
			if err != nil {
				t.Fatalf("TripBalances() error = %v", err)
			}
			if len(got.Balances) != len(tt.want) {
				t.Fatalf("got %d balances, want %d", len(got.Balances), len(tt.want))
			}
			for i, want := range tt.want {
				if got.Balances[i] != want {
					t.Errorf("balance %d = %+v, want %+v", i, got.Balances[i], want)
				}
			}
			if math.Abs(got.TotalOutstanding-tt.wantTotal) > 0.001 {
				t.Errorf("TotalOutstanding = %v, want %v", got.TotalOutstanding, tt.wantTotal)
			}
		})
	}
}

func TestTripBalancesErrors(t *testing.T) {
	if _, err := TripBalances(-1, nil); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("expected ErrNegativePrice, got %v", err)
	}
	bad := []models.Participant{{UserID: "alice", PaymentAmount: amount(-5)}}
	if _, err := TripBalances(100, bad); err == nil {
		t.Error("expected error for negative payment")
	}
}

func TestForTrip(t *testing.T) {
	destinations := []*models.Destination{{ID: "zermatt", Price: 1500}, {ID: "niseko", Price: 1100}}

	voting := &models.Trip{Status: models.TripStatusVoting, Participants: []models.Participant{models.NewPendingParticipant("alice")}}
	if s, err := ForTrip(voting, destinations); s != nil || err != nil {
		t.Errorf("expected no summary while voting, got %+v, %v", s, err)
	}

	confirmed := voting.Clone()
	confirmed.Status = models.TripStatusConfirmed
	confirmed.SelectedDestinationID = "niseko"
	s, err := ForTrip(confirmed, destinations)
	if err != nil {
		t.Fatalf("ForTrip() error = %v", err)
	}
	if s.TotalDue != 1100 {
		t.Errorf("TotalDue = %v, want 1100", s.TotalDue)
	}

	confirmed.SelectedDestinationID = "atlantis"
	if _, err := ForTrip(confirmed, destinations); err == nil {
		t.Error("expected error for unknown destination")
	}
}
