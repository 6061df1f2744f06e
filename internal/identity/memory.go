package identity

import (
	"context"
	"sync"
)

// MemoryUsers is an in-memory UserStore used in tests and local development.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by id
}

var _ UserStore = (*MemoryUsers)(nil)

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]*User)}
}

func (s *MemoryUsers) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUnknownUser
}

func (s *MemoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUnknownUser
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUnknownUser
	}
	u.PasswordHash = passwordHash
	return nil
}
