package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripplanner/internal/catalog"
	"github.com/mmynk/tripplanner/internal/middleware"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/storage/sqlite"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

// testUserHeader names the user a test request acts as.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets the user named
// by the test header in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, "")
			}
			return next(ctx, req)
		}
	}
}

// as builds a request acting as userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

type testEnv struct {
	store  *sqlite.SQLiteStore
	groups tripapiconnect.GroupServiceClient
	trips  tripapiconnect.TripServiceClient
}

// setupTestServer creates a test server with a seeded SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := catalog.Seed(context.Background(), store); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	authInterceptor := connect.WithInterceptors(testAuthInterceptor())
	groupPath, groupHandler := tripapiconnect.NewGroupServiceHandler(NewGroupService(store), authInterceptor)
	tripPath, tripHandler := tripapiconnect.NewTripServiceHandler(
		NewTripService(store, catalog.NewSource(store)),
		authInterceptor,
	)

	mux := http.NewServeMux()
	mux.Handle(groupPath, groupHandler)
	mux.Handle(tripPath, tripHandler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:  store,
		groups: tripapiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		trips:  tripapiconnect.NewTripServiceClient(http.DefaultClient, server.URL),
	}
}

// createUsers registers users directly in the store and returns their IDs.
func (e *testEnv) createUsers(t *testing.T, names ...string) []string {
	t.Helper()
	ids := make([]string, len(names))
	for i, name := range names {
		u := models.NewUser(name+"@example.com", name, "hash")
		if err := e.store.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("failed to create user %s: %v", name, err)
		}
		ids[i] = u.ID
	}
	return ids
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}
