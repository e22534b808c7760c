package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// SessionStore holds the current token and derived identity fields for the
// life of a client session. Save and Clear act on all fields as one group;
// a partially written session never exists. The store performs no network
// calls: it is the single source of truth the route guard consults before
// triggering any server round trip.
type SessionStore interface {
	Save(token string, role Role, subjectID, displayName string) error
	Clear() error
	IsAuthenticated() bool
	Token() string
	Role() Role
	SubjectID() string
	DisplayName() string
}

type sessionState struct {
	Token       string `json:"token"`
	Role        Role   `json:"role"`
	SubjectID   string `json:"subject_id"`
	DisplayName string `json:"display_name"`
}

// MemorySessionStore keeps the session in process memory.
type MemorySessionStore struct {
	mu    sync.RWMutex
	state sessionState
}

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Save(token string, role Role, subjectID, displayName string) error {
	if token == "" {
		return errors.New("session token must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = sessionState{Token: token, Role: role, SubjectID: subjectID, DisplayName: displayName}
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = sessionState{}
	return nil
}

func (s *MemorySessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != ""
}

func (s *MemorySessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *MemorySessionStore) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Role
}

func (s *MemorySessionStore) SubjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SubjectID
}

func (s *MemorySessionStore) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DisplayName
}

// FileSessionStore persists the session as a JSON file so it survives client
// restarts. Writes go through a temp file and rename, so the file on disk is
// always either the previous or the new session, never a partial one.
type FileSessionStore struct {
	mu    sync.RWMutex
	path  string
	state sessionState
}

// NewFileSessionStore loads any existing session from path.
func NewFileSessionStore(path string) (*FileSessionStore, error) {
	store := &FileSessionStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &store.state); err != nil {
		// A corrupt session file is treated as no session.
		store.state = sessionState{}
	}
	return store, nil
}

func (s *FileSessionStore) Save(token string, role Role, subjectID, displayName string) error {
	if token == "" {
		return errors.New("session token must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := sessionState{Token: token, Role: role, SubjectID: subjectID, DisplayName: displayName}
	if err := s.write(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = sessionState{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileSessionStore) write(state sessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileSessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token != ""
}

func (s *FileSessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *FileSessionStore) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Role
}

func (s *FileSessionStore) SubjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SubjectID
}

func (s *FileSessionStore) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DisplayName
}
