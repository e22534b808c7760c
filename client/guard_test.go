package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type verifyStub struct {
	srv   *httptest.Server
	calls atomic.Int64

	status atomic.Int64
	user   atomic.Value // User
}

func newVerifyStub(t *testing.T) *verifyStub {
	t.Helper()

	stub := &verifyStub{}
	stub.status.Store(http.StatusOK)
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/verify" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		stub.calls.Add(1)

		status := int(stub.status.Load())
		if status != http.StatusOK {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Token inválido o expirado"})
			return
		}
		user := stub.user.Load().(User)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "user": user})
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func (s *verifyStub) respondWith(user User) {
	s.status.Store(http.StatusOK)
	s.user.Store(user)
}

func guardWithSession(stub *verifyStub, role Role) (*RouteGuard, SessionStore) {
	session := NewMemorySessionStore()
	_ = session.Save("tok-abc", role, "u-1", "Test Cuenta")
	c := New(stub.srv.URL, session)
	return NewRouteGuard(c, nil), session
}

func TestRouteGuard_UnprotectedPath(t *testing.T) {
	stub := newVerifyStub(t)
	guard, _ := guardWithSession(stub, RoleUser)

	decision := guard.Authorize(context.Background(), "/login")
	if !decision.Authorized {
		t.Fatalf("decision = %+v", decision)
	}
	if stub.calls.Load() != 0 {
		t.Fatal("unprotected navigation must not hit the server")
	}
}

func TestRouteGuard_NoSessionRedirectsToLoginWithoutNetwork(t *testing.T) {
	stub := newVerifyStub(t)
	c := New(stub.srv.URL, NewMemorySessionStore())
	guard := NewRouteGuard(c, nil)

	decision := guard.Authorize(context.Background(), "/admin")
	if decision.Authorized || decision.RedirectTo != LoginPath {
		t.Fatalf("decision = %+v", decision)
	}
	if stub.calls.Load() != 0 {
		t.Fatal("missing session must be decided locally")
	}
}

func TestRouteGuard_AuthorizedWhenRoleMatches(t *testing.T) {
	stub := newVerifyStub(t)
	stub.respondWith(User{ID: "u-1", Username: "test_admin", Rol: RoleAdmin, Status: "activo"})
	guard, _ := guardWithSession(stub, RoleAdmin)

	decision := guard.Authorize(context.Background(), "/admin/sims")
	if !decision.Authorized {
		t.Fatalf("decision = %+v", decision)
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", stub.calls.Load())
	}
}

func TestRouteGuard_RoleMismatchRedirectsHomeKeepingSession(t *testing.T) {
	stub := newVerifyStub(t)
	stub.respondWith(User{ID: "u-1", Username: "test_user", Rol: RoleUser, Status: "activo"})
	guard, session := guardWithSession(stub, RoleUser)

	decision := guard.Authorize(context.Background(), "/admin")
	if decision.Authorized {
		t.Fatal("standard user must not see admin views")
	}
	if decision.RedirectTo != "/users" {
		t.Fatalf("RedirectTo = %q, want /users", decision.RedirectTo)
	}
	if !session.IsAuthenticated() {
		t.Fatal("a valid subject in the wrong place keeps its session")
	}
}

func TestRouteGuard_AdminOnUserPathRedirectsToAdminHome(t *testing.T) {
	stub := newVerifyStub(t)
	stub.respondWith(User{ID: "u-1", Username: "test_admin", Rol: RoleAdmin, Status: "activo"})
	guard, _ := guardWithSession(stub, RoleAdmin)

	decision := guard.Authorize(context.Background(), "/users")
	if decision.RedirectTo != "/admin" {
		t.Fatalf("RedirectTo = %q, want /admin", decision.RedirectTo)
	}
}

func TestRouteGuard_ServerRejectionClearsSession(t *testing.T) {
	stub := newVerifyStub(t)
	stub.status.Store(http.StatusForbidden)
	guard, session := guardWithSession(stub, RoleUser)

	decision := guard.Authorize(context.Background(), "/users")
	if decision.Authorized || decision.RedirectTo != LoginPath {
		t.Fatalf("decision = %+v", decision)
	}
	if session.IsAuthenticated() {
		t.Fatal("rejected verification must clear the session")
	}
}

func TestRouteGuard_NetworkFailureClearsSession(t *testing.T) {
	stub := newVerifyStub(t)
	stub.srv.Close()
	guard, session := guardWithSession(stub, RoleUser)

	decision := guard.Authorize(context.Background(), "/users")
	if decision.Authorized || decision.RedirectTo != LoginPath {
		t.Fatalf("decision = %+v", decision)
	}
	if session.IsAuthenticated() {
		t.Fatal("network failure must clear the session")
	}
}

func TestRouteGuard_SupersededNavigationDiscardsResult(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	var first atomic.Bool
	first.Store(true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first.CompareAndSwap(true, false) {
			close(arrived)
			<-release
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    User{ID: "u-1", Username: "test_user", Rol: RoleUser, Status: "activo"},
		})
	}))
	defer srv.Close()

	session := NewMemorySessionStore()
	_ = session.Save("tok-abc", RoleUser, "u-1", "Test User")
	guard := NewRouteGuard(New(srv.URL, session), nil)

	decisions := make(chan Decision, 1)
	go func() {
		decisions <- guard.Authorize(context.Background(), "/admin")
	}()
	<-arrived

	// A newer navigation supersedes the pending one.
	second := guard.Authorize(context.Background(), "/users")
	if !second.Authorized {
		t.Fatalf("second decision = %+v", second)
	}

	close(release)
	stale := <-decisions
	if !stale.Superseded {
		t.Fatalf("stale decision = %+v, want superseded", stale)
	}
	if stale.Authorized || stale.RedirectTo != "" {
		t.Fatal("superseded decision must carry no actionable result")
	}
	if !session.IsAuthenticated() {
		t.Fatal("superseded navigation must not touch the session")
	}
}
