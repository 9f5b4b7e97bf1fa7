package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/storage/sqlite"
)

// TestGroupPlansTripEndToEnd runs three members through voting and
// finalization against a real SQLite store.
func TestGroupPlansTripEndToEnd(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "e2e.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var users []*models.User
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		u := models.NewUser(name+"@example.com", name, "hash")
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		users = append(users, u)
	}
	if err := store.UpsertDestinations(ctx, []*models.Destination{
		{ID: "d1", Resort: "Whistler", Accommodation: "Lodge", Price: 1200},
		{ID: "d2", Resort: "Zermatt", Accommodation: "Chalet", Price: 1800},
	}); err != nil {
		t.Fatalf("UpsertDestinations failed: %v", err)
	}

	group := &models.Group{Name: "Ski week", CreatorID: users[0].ID}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, u := range users[1:] {
		if err := store.AddGroupMember(ctx, group.ID, u.ID); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
	}

	sessions := make([]*Session, len(users))
	for i, u := range users {
		sessions[i] = New(store, group.ID, u.ID, WithRetryDelay(0))
		if err := sessions[i].Load(ctx); err != nil {
			t.Fatalf("Load for %s failed: %v", u.Name, err)
		}
	}

	for i, dest := range []string{"d1", "d1", "d2"} {
		if _, err := sessions[i].CastVote(ctx, dest); err != nil {
			t.Fatalf("CastVote for %s failed: %v", users[i].Name, err)
		}
	}

	if err := sessions[0].Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	tl := sessions[0].Tally()
	if tl.Count("d1") != 2 || tl.Count("d2") != 1 {
		t.Errorf("Expected d1=2 d2=1, got d1=%d d2=%d", tl.Count("d1"), tl.Count("d2"))
	}
	if tl.Percentage("d1") != 67 || tl.Percentage("d2") != 33 {
		t.Errorf("Expected 67%%/33%%, got %d%%/%d%%", tl.Percentage("d1"), tl.Percentage("d2"))
	}

	confirmed, err := sessions[0].FinalizeVoting(ctx)
	if err != nil {
		t.Fatalf("FinalizeVoting failed: %v", err)
	}
	if confirmed.Status != models.TripStatusConfirmed || confirmed.SelectedDestinationID != "d1" {
		t.Errorf("Expected confirmed d1, got %s/%s", confirmed.Status, confirmed.SelectedDestinationID)
	}
	if len(confirmed.Participants) != 3 {
		t.Fatalf("Expected 3 participants, got %d", len(confirmed.Participants))
	}
	for _, p := range confirmed.Participants {
		if p.Status != models.ParticipantPending || p.PaymentStatus != models.PaymentNotPaid {
			t.Errorf("Expected %s pending and unpaid, got %s/%s", p.UserID, p.Status, p.PaymentStatus)
		}
	}

	stored, err := store.GetGroupTrip(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupTrip failed: %v", err)
	}
	if stored.Status != models.TripStatusConfirmed || stored.SelectedDestinationID != "d1" {
		t.Errorf("Expected stored trip confirmed d1, got %s/%s", stored.Status, stored.SelectedDestinationID)
	}

	// Carol sees the result on her next refresh.
	if err := sessions[2].Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := sessions[2].Snapshot().Trip; got.Status != models.TripStatusConfirmed {
		t.Errorf("Expected carol to see confirmed trip, got %s", got.Status)
	}
}
