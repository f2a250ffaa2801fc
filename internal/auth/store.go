package auth

import (
	"context"
	"sync"
)

// Store holds user credential records keyed by username.
type Store interface {
	// Get returns the user named username, or ErrUserNotFound.
	Get(ctx context.Context, username string) (*User, error)
	// Exists reports whether a record for username is present, claimed or not.
	Exists(ctx context.Context, username string) (bool, error)
	// Upsert stores passwordHash for username. A new record gets RoleDefault;
	// an existing record keeps its role.
	Upsert(ctx context.Context, username, passwordHash string) (*User, error)
	// SetRole assigns role to username, creating an unclaimed record when
	// the username is unknown.
	SetRole(ctx context.Context, username string, role Role) (*User, error)
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (s *MemoryStore) Get(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) Exists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok, nil
}

func (s *MemoryStore) Upsert(_ context.Context, username, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		u = User{Username: username, Role: RoleDefault}
	}
	u.PasswordHash = passwordHash
	s.users[username] = u
	return &u, nil
}

func (s *MemoryStore) SetRole(_ context.Context, username string, role Role) (*User, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		u = User{Username: username}
	}
	u.Role = role
	s.users[username] = u
	return &u, nil
}

var _ Store = (*MemoryStore)(nil)
