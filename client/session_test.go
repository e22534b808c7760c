package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemorySessionStore_SaveAndClear(t *testing.T) {
	store := NewMemorySessionStore()

	if store.IsAuthenticated() {
		t.Fatal("fresh store must not be authenticated")
	}

	if err := store.Save("tok-123", RoleAdmin, "u-1", "Test Admin"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatal("expected authenticated after save")
	}
	if store.Token() != "tok-123" || store.Role() != RoleAdmin || store.SubjectID() != "u-1" || store.DisplayName() != "Test Admin" {
		t.Fatal("fields not saved as a group")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("expected unauthenticated after clear")
	}
	if store.Token() != "" || store.Role() != "" || store.SubjectID() != "" || store.DisplayName() != "" {
		t.Fatal("clear must remove every field")
	}
}

func TestMemorySessionStore_RejectsEmptyToken(t *testing.T) {
	store := NewMemorySessionStore()
	if err := store.Save("", RoleUser, "u-1", "x"); err == nil {
		t.Fatal("expected empty token to be rejected")
	}
	if store.IsAuthenticated() {
		t.Fatal("failed save must not authenticate")
	}
}

func TestFileSessionStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewFileSessionStore(path)
	if err != nil {
		t.Fatalf("NewFileSessionStore: %v", err)
	}
	if err := store.Save("tok-456", RoleUser, "u-2", "Test User"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := NewFileSessionStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reopened.IsAuthenticated() || reopened.Token() != "tok-456" || reopened.Role() != RoleUser {
		t.Fatal("session did not survive reopen")
	}

	if err := reopened.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("clear must remove the session file")
	}
}

func TestFileSessionStore_CorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store, err := NewFileSessionStore(path)
	if err != nil {
		t.Fatalf("NewFileSessionStore: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("corrupt session must not authenticate")
	}
}
