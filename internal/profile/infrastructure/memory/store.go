package memory

import (
	"context"
	"sync"

	"github.com/dmehra2102/pizzeria-ordering/internal/profile/domain"
)

type Store struct {
	mu      sync.RWMutex
	profile domain.Profile
}

func NewStore(initial domain.Profile) *Store {
	return &Store{profile: initial}
}

func (s *Store) Load(context.Context) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, nil
}

func (s *Store) Save(_ context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	return nil
}
