package storage

import (
	"context"
	"sync"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// MemoryStore keeps credentials in process memory only. Used in tests and as
// an explicit opt-out of persistence.
type MemoryStore struct {
	mu    sync.Mutex
	creds ports.Credentials
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (ports.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.creds
	if s.creds.User != nil {
		u := *s.creds.User
		creds.User = &u
	}
	return creds, nil
}

func (s *MemoryStore) SaveTokens(_ context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = access
	s.creds.RefreshToken = refresh
	return nil
}

func (s *MemoryStore) SaveAccessToken(_ context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = access
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.creds.User = &u
	return nil
}

func (s *MemoryStore) AccessToken(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.AccessToken, nil
}

func (s *MemoryStore) RefreshToken(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.RefreshToken, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = ports.Credentials{}
	return nil
}
