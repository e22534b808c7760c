package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_LoginSavesSession(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Login exitoso",
			"token":   "tok-abc",
			"user": map[string]any{
				"id":        "u-1",
				"nombre":    "Test",
				"apellidos": "Admin",
				"email":     "test.admin@americaiot.com",
				"username":  "test_admin",
				"rol":       "admin",
				"status":    "activo",
			},
		})
	}))
	defer srv.Close()

	session := NewMemorySessionStore()
	c := New(srv.URL, session)

	user, err := c.Login(context.Background(), "test_admin", "americaiot_test_admin")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Rol != RoleAdmin {
		t.Fatalf("Rol = %q", user.Rol)
	}
	if _, hasEmail := received["email"]; hasEmail {
		t.Fatal("plain identifier must be sent as username, not email")
	}
	if received["username"] != "test_admin" {
		t.Fatalf("request = %v", received)
	}

	if !session.IsAuthenticated() || session.Token() != "tok-abc" {
		t.Fatal("session not saved")
	}
	if session.Role() != RoleAdmin || session.SubjectID() != "u-1" || session.DisplayName() != "Test Admin" {
		t.Fatal("derived fields not saved with token")
	}
}

func TestClient_LoginDetectsEmailIdentifier(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Credenciales inválidas"})
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemorySessionStore())
	_, err := c.Login(context.Background(), "test.admin@americaiot.com", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if received["email"] != "test.admin@americaiot.com" {
		t.Fatalf("request = %v", received)
	}
	if _, hasUsername := received["username"]; hasUsername {
		t.Fatal("email identifier must not be sent as username")
	}

	apiErr, ok := err.(*APIError)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Credenciales inválidas" {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_LoginFailureLeavesSessionEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Usuario bloqueado. Contacte al administrador"})
	}))
	defer srv.Close()

	session := NewMemorySessionStore()
	c := New(srv.URL, session)

	if _, err := c.Login(context.Background(), "blocked_user", "whatever"); err == nil {
		t.Fatal("expected login failure")
	}
	if session.IsAuthenticated() {
		t.Fatal("failed login must not populate the session")
	}
}

func TestClient_LogoutAlwaysClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	// Shut the server down first so the logout call fails on the wire.
	srv.Close()

	session := NewMemorySessionStore()
	if err := session.Save("tok-abc", RoleUser, "u-2", "Test User"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c := New(srv.URL, session)
	_ = c.Logout(context.Background())

	if session.IsAuthenticated() {
		t.Fatal("logout must clear the session even when the server call fails")
	}
}

func TestClient_VerifySendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Fatalf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user": map[string]any{
				"id": "u-1", "nombre": "Test", "apellidos": "Admin",
				"username": "test_admin", "rol": "admin", "status": "activo",
			},
		})
	}))
	defer srv.Close()

	session := NewMemorySessionStore()
	if err := session.Save("tok-abc", RoleAdmin, "u-1", "Test Admin"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c := New(srv.URL, session)
	user, err := c.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if user.Username != "test_admin" {
		t.Fatalf("user = %+v", user)
	}
}
