package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
	RoleMember   Role = "MEMBER"
)

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Active       bool      `json:"active"`
	LocationID   *int64    `json:"locationId,omitempty"`
	LocationName string    `json:"locationName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthResponse is what /auth/login and /auth/register return.
type AuthResponse struct {
	Token        string `json:"token"`
	Type         string `json:"type"`
	UserID       int64  `json:"userId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         Role   `json:"role"`
	LocationID   *int64 `json:"locationId,omitempty"`
	LocationName string `json:"locationName,omitempty"`
}

// State is what a Store persists between runs.
type State struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// Session holds the token and user for the running process. Role flags are
// derived from the current user on every call.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
	user  *User
	now   func() time.Time
}

func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store, now: time.Now}
}

// Init hydrates the session from its store. A missing or unreadable store
// leaves the session logged out.
func (s *Session) Init() error {
	st, err := s.store.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Token != "" && st.User != nil {
		s.token = st.Token
		s.user = st.User
	}
	return nil
}

func (s *Session) Login(resp AuthResponse) error {
	u := &User{
		ID:           resp.UserID,
		FirstName:    resp.FirstName,
		LastName:     resp.LastName,
		Email:        resp.Email,
		Role:         resp.Role,
		Active:       true,
		LocationID:   resp.LocationID,
		LocationName: resp.LocationName,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Save(State{Token: resp.Token, User: u}); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = u
	s.mu.Unlock()
	return nil
}

// Teardown clears the session and its persisted state.
func (s *Session) Teardown() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return s.store.Clear()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) IsAdmin() bool    { return s.hasRole(RoleAdmin) }
func (s *Session) IsEmployee() bool { return s.hasRole(RoleEmployee) }
func (s *Session) IsMember() bool   { return s.hasRole(RoleMember) }

func (s *Session) hasRole(r Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == r
}

type memoryStore struct {
	mu    sync.Mutex
	state State
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *memoryStore) Save(st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	return nil
}

func (m *memoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	return nil
}

type fileStore struct {
	path string
}

// NewFileStore persists the session as JSON at path with 0600 permissions.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (f *fileStore) Load() (State, error) {
	var st State
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, nil
	}
	return st, nil
}

func (f *fileStore) Save(st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *fileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
