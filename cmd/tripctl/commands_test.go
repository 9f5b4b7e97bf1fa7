package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripplanner/internal/auth"
	"github.com/mmynk/tripplanner/internal/catalog"
	"github.com/mmynk/tripplanner/internal/client"
	"github.com/mmynk/tripplanner/internal/config"
	"github.com/mmynk/tripplanner/internal/middleware"
	"github.com/mmynk/tripplanner/internal/service"
	"github.com/mmynk/tripplanner/internal/storage/sqlite"
	"github.com/mmynk/tripplanner/pkg/tripapi/tripapiconnect"
)

func setupServer(t *testing.T) string {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "tripctl.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := catalog.Seed(context.Background(), store); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager,
		tripapiconnect.AuthServiceRegisterProcedure,
		tripapiconnect.AuthServiceLoginProcedure,
	))
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

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

// tripctl runs one command and returns its output.
func tripctl(t *testing.T, cfg config.CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), cfg, args, &out)
	return out.String(), err
}

func TestCommands(t *testing.T) {
	url := setupServer(t)
	ctx := context.Background()

	_, token, err := client.New(nil, url, "").Register(ctx, "alice@example.com", "Alice", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	cfg := config.CLI{Server: url, Token: token, PollInterval: time.Second}

	out, err := tripctl(t, cfg, "create", "Powder Hounds")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out, "join code") {
		t.Errorf("unexpected create output %q", out)
	}

	groups, err := client.New(nil, url, token).ListMyGroups(ctx)
	if err != nil || len(groups) != 1 {
		t.Fatalf("expected one group, got %v, %v", groups, err)
	}
	groupID := groups[0].ID

	out, err = tripctl(t, cfg, "groups")
	if err != nil {
		t.Fatalf("groups failed: %v", err)
	}
	if !strings.Contains(out, "Powder Hounds") {
		t.Errorf("expected group listed, got %q", out)
	}

	if _, err := tripctl(t, cfg, "finalize", groupID); err == nil || !strings.Contains(err.Error(), "nobody has voted") {
		t.Errorf("expected no votes error, got %v", err)
	}

	out, err = tripctl(t, cfg, "vote", groupID, "zermatt")
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if !strings.Contains(out, "voted for zermatt") || !strings.Contains(out, "100%") {
		t.Errorf("unexpected vote output %q", out)
	}

	out, err = tripctl(t, cfg, "pay", groupID, "paid", "1250.50")
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if !strings.Contains(out, "paid (1250.50)") {
		t.Errorf("expected payment shown, got %q", out)
	}

	if _, err := tripctl(t, cfg, "pay", groupID, "paid", "lots"); err == nil {
		t.Error("expected invalid amount error")
	}

	out, err = tripctl(t, cfg, "finalize", groupID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !strings.Contains(out, "trip confirmed: zermatt") {
		t.Errorf("unexpected finalize output %q", out)
	}

	out, err = tripctl(t, cfg, "status", groupID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "confirmed: Zermatt") || !strings.Contains(out, "Alice") {
		t.Errorf("unexpected status output %q", out)
	}
	// 2400 package, 1250.50 paid.
	if !strings.Contains(out, "1149.50") {
		t.Errorf("expected outstanding balance in status, got %q", out)
	}
}

func TestUsage(t *testing.T) {
	cfg := config.CLI{Server: "http://localhost:0", PollInterval: time.Second}
	for _, args := range [][]string{nil, {"dance"}, {"vote", "group-only"}} {
		if _, err := tripctl(t, cfg, args...); !errors.Is(err, errUsage) {
			t.Errorf("run(%q) = %v, want usage error", args, err)
		}
	}
}

func TestFingerprint(t *testing.T) {
	url := setupServer(t)
	ctx := context.Background()
	_, token, err := client.New(nil, url, "").Register(ctx, "bob@example.com", "Bob", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	c := client.New(nil, url, token)
	g, err := c.CreateGroup(ctx, "Crew")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	e := &env{cfg: config.CLI{Server: url, Token: token, PollInterval: time.Second}, client: c}
	s, err := e.open(ctx, g.ID)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	before := fingerprint(s.Snapshot())
	if fingerprint(s.Snapshot()) != before {
		t.Error("fingerprint is not stable")
	}
	if _, err := s.CastVote(ctx, "niseko"); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if fingerprint(s.Snapshot()) == before {
		t.Error("expected fingerprint to change after a vote")
	}
}
