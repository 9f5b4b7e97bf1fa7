package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripplanner/internal/auth"
	"github.com/mmynk/tripplanner/internal/catalog"
	"github.com/mmynk/tripplanner/internal/middleware"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/service"
	"github.com/mmynk/tripplanner/internal/session"
	"github.com/mmynk/tripplanner/internal/storage/sqlite"
	pb "github.com/mmynk/tripplanner/pkg/tripapi"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

// setupServer runs the full service stack behind RequireAuth.
func setupServer(t *testing.T) string {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := catalog.Seed(context.Background(), store); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager,
		tripapiconnect.AuthServiceRegisterProcedure,
		tripapiconnect.AuthServiceLoginProcedure,
	))

	mux := http.NewServeMux()
	mux.Handle(tripapiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, nil), interceptors))
	mux.Handle(tripapiconnect.NewGroupServiceHandler(service.NewGroupService(store), interceptors))
	mux.Handle(tripapiconnect.NewTripServiceHandler(service.NewTripService(store, catalog.NewSource(store)), interceptors))
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server.URL
}

// signUp registers name and returns a client carrying its token.
func signUp(t *testing.T, url, name string) (*Client, *models.User) {
	t.Helper()
	user, token, err := New(nil, url, "").Register(context.Background(), name+"@example.com", name, "password123")
	if err != nil {
		t.Fatalf("Register %s failed: %v", name, err)
	}
	return New(nil, url, token), user
}

func TestClientSession(t *testing.T) {
	url := setupServer(t)
	ctx := context.Background()

	alice, aliceUser := signUp(t, url, "Alice")
	bob, bobUser := signUp(t, url, "Bob")

	group, err := alice.CreateGroup(ctx, "Powder Hounds")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := bob.JoinGroup(ctx, group.JoinCode); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	aliceSession := session.New(alice, group.ID, aliceUser.ID, session.WithRetryDelay(time.Millisecond))
	bobSession := session.New(bob, group.ID, bobUser.ID, session.WithRetryDelay(time.Millisecond))
	for _, s := range []*session.Session{aliceSession, bobSession} {
		if err := s.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	st := aliceSession.Snapshot()
	if len(st.Members) != 2 || len(st.Destinations) != len(catalog.Default()) {
		t.Fatalf("unexpected loaded state: %d members, %d destinations", len(st.Members), len(st.Destinations))
	}
	if st.Trip == nil || len(st.Trip.Participants) != 2 {
		t.Fatalf("expected trip with 2 participants, got %+v", st.Trip)
	}

	_, err = aliceSession.FinalizeVoting(ctx)
	if !errors.Is(err, session.ErrNoQuorum) {
		t.Fatalf("expected ErrNoQuorum, got %v", err)
	}

	if _, err := aliceSession.CastVote(ctx, "niseko"); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if _, err := bobSession.CastVote(ctx, "niseko"); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	if err := aliceSession.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := aliceSession.Tally().Count("niseko"); got != 2 {
		t.Errorf("expected 2 votes for niseko, got %d", got)
	}

	server, err := alice.GetTally(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetTally failed: %v", err)
	}
	if server.Total != 2 || server.LeaderID != "niseko" {
		t.Errorf("unexpected server tally %+v", server)
	}

	if _, err := bobSession.UpdateParticipantStatus(ctx, bobUser.ID, models.ParticipantConfirmed); err != nil {
		t.Fatalf("UpdateParticipantStatus failed: %v", err)
	}

	confirmed, err := aliceSession.FinalizeVoting(ctx)
	if err != nil {
		t.Fatalf("FinalizeVoting failed: %v", err)
	}
	if confirmed.Status != models.TripStatusConfirmed || confirmed.SelectedDestinationID != "niseko" {
		t.Errorf("expected niseko confirmed, got %+v", confirmed)
	}

	// A second finalize is a write failure, not a missing quorum.
	_, err = bobSession.FinalizeVoting(ctx)
	if !errors.Is(err, session.ErrWriteFailure) {
		t.Errorf("expected ErrWriteFailure, got %v", err)
	}

	if err := bobSession.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	trip := bobSession.Snapshot().Trip
	if trip.Status != models.TripStatusConfirmed {
		t.Errorf("expected bob to see the confirmed trip, got %s", trip.Status)
	}
	for _, p := range trip.Participants {
		if p.UserID == bobUser.ID && p.Status != models.ParticipantConfirmed {
			t.Errorf("expected bob confirmed, got %s", p.Status)
		}
	}
}

func TestClientNotFound(t *testing.T) {
	url := setupServer(t)
	ctx := context.Background()
	c, _ := signUp(t, url, "Alice")

	group, err := c.GetGroupByID(ctx, "missing")
	if err != nil || group != nil {
		t.Errorf("expected nil group, got %+v, %v", group, err)
	}
	dest, err := c.GetDestinationByID(ctx, "atlantis")
	if err != nil || dest != nil {
		t.Errorf("expected nil destination, got %+v, %v", dest, err)
	}
	vote, err := c.GetUserVote(ctx, "")
	if err != nil || vote != nil {
		t.Errorf("expected nil vote, got %+v, %v", vote, err)
	}
	updated, err := c.UpdateParticipantStatus(ctx, "missing", "someone", models.ParticipantDeclined)
	if err != nil || updated != nil {
		t.Errorf("expected nil trip, got %+v, %v", updated, err)
	}
	added, err := c.AddParticipants(ctx, "missing", []string{"someone"})
	if err != nil || added != nil {
		t.Errorf("expected nil trip from AddParticipants, got %+v, %v", added, err)
	}
}

func TestClientUnauthenticated(t *testing.T) {
	url := setupServer(t)

	_, err := New(nil, url, "").CurrentUser(context.Background())
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", err)
	}

	c, user := signUp(t, url, "Alice")
	me, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if me.ID != user.ID {
		t.Errorf("expected %s, got %s", user.ID, me.ID)
	}
}

// flakyTrips fails ListDestinations with Unavailable a fixed number of times.
type flakyTrips struct {
	tripapiconnect.UnimplementedTripServiceHandler
	failures int32
	calls    atomic.Int32
}

func (f *flakyTrips) ListDestinations(ctx context.Context, req *connect.Request[pb.ListDestinationsRequest]) (*connect.Response[pb.ListDestinationsResponse], error) {
	if f.calls.Add(1) <= f.failures {
		return nil, connect.NewError(connect.CodeUnavailable, errors.New("warming up"))
	}
	return connect.NewResponse(&pb.ListDestinationsResponse{
		Destinations: []*pb.Destination{{ID: "zermatt", Resort: "Zermatt"}},
	}), nil
}

func TestClientRetriesUnavailableReads(t *testing.T) {
	tests := []struct {
		name      string
		failures  int32
		wantErr   bool
		wantCalls int32
	}{
		{name: "recovers", failures: 2, wantCalls: 3},
		{name: "gives up", failures: 5, wantErr: true, wantCalls: readAttempts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &flakyTrips{failures: tt.failures}
			mux := http.NewServeMux()
			mux.Handle(tripapiconnect.NewTripServiceHandler(handler))
			server := httptest.NewServer(mux)
			defer server.Close()

			c := New(nil, server.URL, "")
			c.retryDelay = time.Millisecond

			destinations, err := c.GetAllDestinations(context.Background())
			if tt.wantErr {
				if connect.CodeOf(err) != connect.CodeUnavailable {
					t.Errorf("expected unavailable, got %v", err)
				}
			} else if err != nil || len(destinations) != 1 {
				t.Errorf("expected one destination, got %v, %v", destinations, err)
			}
			if got := handler.calls.Load(); got != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, got)
			}
		})
	}
}
