package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripplanner/internal/auth"
	"github.com/mmynk/tripplanner/internal/middleware"
	"github.com/mmynk/tripplanner/internal/storage/sqlite"
	pb "github.com/mmynk/tripplanner/pkg/tripapi"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

// setupAuthServer serves the auth and group services behind RequireAuth.
func setupAuthServer(t *testing.T) string {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager,
		tripapiconnect.AuthServiceRegisterProcedure,
		tripapiconnect.AuthServiceLoginProcedure,
	))

	mux := http.NewServeMux()
	mux.Handle(tripapiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, nil), interceptors))
	mux.Handle(tripapiconnect.NewGroupServiceHandler(NewGroupService(store), interceptors))
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server.URL
}

func TestAuthFlow(t *testing.T) {
	url := setupAuthServer(t)
	ctx := context.Background()
	client := tripapiconnect.NewAuthServiceClient(http.DefaultClient, url)

	registered, err := client.Register(ctx, connect.NewRequest(&pb.RegisterRequest{
		Email: "Alice@Example.com", Name: "Alice", Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registered.Msg.Token == "" {
		t.Fatal("expected a token")
	}
	if registered.Msg.User.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", registered.Msg.User.Email)
	}

	_, err = client.Register(ctx, connect.NewRequest(&pb.RegisterRequest{
		Email: "alice@example.com", Name: "Alice again", Password: "correct-horse",
	}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = client.Register(ctx, connect.NewRequest(&pb.RegisterRequest{
		Email: "bob@example.com", Name: "Bob", Password: "short",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.Login(ctx, connect.NewRequest(&pb.LoginRequest{Email: "alice@example.com", Password: "wrong-horse"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	loggedIn, err := client.Login(ctx, connect.NewRequest(&pb.LoginRequest{Email: "alice@example.com", Password: "correct-horse"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	_, err = client.GetCurrentUser(ctx, connect.NewRequest(&pb.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	authed := tripapiconnect.NewAuthServiceClient(http.DefaultClient, url,
		connect.WithInterceptors(middleware.BearerAuth(loggedIn.Msg.Token)))
	me, err := authed.GetCurrentUser(ctx, connect.NewRequest(&pb.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.ID != registered.Msg.User.ID || me.Msg.User.Name != "Alice" {
		t.Errorf("unexpected current user %+v", me.Msg.User)
	}

	// The token also authorizes the other services.
	groups := tripapiconnect.NewGroupServiceClient(http.DefaultClient, url,
		connect.WithInterceptors(middleware.BearerAuth(loggedIn.Msg.Token)))
	created, err := groups.CreateGroup(ctx, connect.NewRequest(&pb.CreateGroupRequest{Name: "Crew"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if created.Msg.Group.CreatorID != registered.Msg.User.ID {
		t.Errorf("expected creator %s, got %s", registered.Msg.User.ID, created.Msg.Group.CreatorID)
	}

	forged := tripapiconnect.NewGroupServiceClient(http.DefaultClient, url,
		connect.WithInterceptors(middleware.BearerAuth("not-a-token")))
	_, err = forged.ListMyGroups(ctx, connect.NewRequest(&pb.ListMyGroupsRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
