package session

import (
	"context"
	"sync"
)

// MemoryStore is a Store that forgets everything on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	cred *Credential
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, username, password string) error {
	if err := validate(username); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &Credential{Username: username, Token: Encode(username, password)}
	return nil
}

func (s *MemoryStore) Credentials(_ context.Context) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return Credential{}, ErrNoCredentials
	}
	return *s.cred, nil
}

func (s *MemoryStore) Username(ctx context.Context) (string, error) {
	c, err := s.Credentials(ctx)
	if err != nil {
		return "", err
	}
	return c.Username, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}

func (s *MemoryStore) Close() error { return nil }
