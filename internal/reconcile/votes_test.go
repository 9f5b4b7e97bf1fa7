package reconcile

import (
	"testing"

	"github.com/mmynk/tripplanner/internal/models"
)

func TestReplaceVote_SingleSlot(t *testing.T) {
	votes := []models.Vote{
		{UserID: "u1", DestinationID: "A", CastAt: 1},
		{UserID: "u2", DestinationID: "B", CastAt: 2},
	}

	for _, dest := range []string{"B", "C", "A"} {
		votes = ReplaceVote(votes, models.Vote{UserID: "u1", DestinationID: dest})
	}

	count := 0
	for _, v := range votes {
		if v.UserID == "u1" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one vote for u1, got %d", count)
	}
	if got := FindVote(votes, "u1"); got == nil || got.DestinationID != "A" {
		t.Errorf("u1 vote = %+v, want destination A", got)
	}
	if len(votes) != 2 {
		t.Errorf("expected 2 votes, got %d", len(votes))
	}
}

func TestRemoveVote(t *testing.T) {
	votes := []models.Vote{{UserID: "u1", DestinationID: "A"}, {UserID: "u2", DestinationID: "B"}}
	out := RemoveVote(votes, "u1")
	if FindVote(out, "u1") != nil {
		t.Error("u1 vote still present")
	}
	if len(votes) != 2 {
		t.Error("RemoveVote mutated its input")
	}
}

func TestVotesDiffer(t *testing.T) {
	base := []models.Vote{{UserID: "u1", DestinationID: "A", CastAt: 1}, {UserID: "u2", DestinationID: "B", CastAt: 2}}

	tests := []struct {
		name  string
		other []models.Vote
		want  bool
	}{
		{"identical", base, false},
		{"reordered with new timestamps", []models.Vote{{UserID: "u2", DestinationID: "B", CastAt: 9}, {UserID: "u1", DestinationID: "A", CastAt: 8}}, false},
		{"changed destination", []models.Vote{{UserID: "u1", DestinationID: "B"}, {UserID: "u2", DestinationID: "B"}}, true},
		{"extra voter", append(append([]models.Vote{}, base...), models.Vote{UserID: "u3", DestinationID: "A"}), true},
		{"missing voter", base[:1], true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VotesDiffer(base, tt.other); got != tt.want {
				t.Errorf("VotesDiffer = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVoteDiffers(t *testing.T) {
	a := &models.Vote{UserID: "u1", DestinationID: "A", CastAt: 1}
	if VoteDiffers(a, &models.Vote{UserID: "u1", DestinationID: "A", CastAt: 5}) {
		t.Error("timestamps alone should not differ")
	}
	if !VoteDiffers(a, &models.Vote{UserID: "u1", DestinationID: "B"}) {
		t.Error("destination change should differ")
	}
	if !VoteDiffers(a, nil) || !VoteDiffers(nil, a) {
		t.Error("nil vs vote should differ")
	}
	if VoteDiffers(nil, nil) {
		t.Error("nil vs nil should not differ")
	}
}
