package trip

import (
	"errors"
	"testing"

	"github.com/mmynk/tripplanner/internal/models"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to models.TripStatus
		wantErr  bool
	}{
		{models.TripStatusVoting, models.TripStatusConfirmed, false},
		{models.TripStatusConfirmed, models.TripStatusVoting, true},
		{models.TripStatusConfirmed, models.TripStatusCompleted, true},
		{models.TripStatusVoting, models.TripStatusCompleted, true},
		{models.TripStatusConfirmed, models.TripStatusConfirmed, true},
		{"bogus", models.TripStatusConfirmed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transition error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tr := New("g1", []string{"a", "b", "a", "c"})

	if tr.ID == "" {
		t.Error("expected trip ID")
	}
	if tr.Status != models.TripStatusVoting {
		t.Errorf("status = %s, want voting", tr.Status)
	}
	if tr.SelectedDestinationID != "" {
		t.Error("expected no selected destination")
	}
	if len(tr.Participants) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(tr.Participants))
	}
	for _, p := range tr.Participants {
		if p.Status != models.ParticipantPending || p.PaymentStatus != models.PaymentNotPaid {
			t.Errorf("participant %s = %s/%s", p.UserID, p.Status, p.PaymentStatus)
		}
	}
}

func TestFinalize(t *testing.T) {
	voting := New("g1", []string{"a", "b"})

	confirmed, err := Finalize(voting, "dest-1")
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if confirmed.Status != models.TripStatusConfirmed || confirmed.SelectedDestinationID != "dest-1" {
		t.Errorf("got %s/%q, want confirmed/dest-1", confirmed.Status, confirmed.SelectedDestinationID)
	}
	if voting.Status != models.TripStatusVoting || voting.SelectedDestinationID != "" {
		t.Error("Finalize mutated its input")
	}
	if len(confirmed.Participants) != 2 {
		t.Errorf("participants lost: %+v", confirmed.Participants)
	}

	t.Run("already confirmed", func(t *testing.T) {
		_, err := Finalize(confirmed, "dest-2")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("no winner", func(t *testing.T) {
		_, err := Finalize(voting, "")
		if !errors.Is(err, ErrNoWinner) {
			t.Errorf("expected ErrNoWinner, got %v", err)
		}
	})

	t.Run("nil trip", func(t *testing.T) {
		if _, err := Finalize(nil, "dest-1"); err == nil {
			t.Error("expected error for nil trip")
		}
	})
}
