package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

type Store struct {
	mu      sync.RWMutex
	entries []domain.Entry
}

func NewStore(seed []domain.Entry) *Store {
	return &Store{entries: slices.Clone(seed)}
}

func (s *Store) List(context.Context) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries), nil
}

// Insert assigns max(id)+1, so ids of deleted trailing entries may be reused.
func (s *Store) Insert(_ context.Context, e domain.Entry) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID domain.EntryID
	for _, cur := range s.entries {
		maxID = max(maxID, cur.ID)
	}
	e.ID = maxID + 1
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *Store) Update(_ context.Context, e domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(e.ID)
	if i < 0 {
		return fmt.Errorf("%w: %d", domain.ErrEntryNotFound, e.ID)
	}
	s.entries[i] = e
	return nil
}

func (s *Store) Delete(_ context.Context, id domain.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", domain.ErrEntryNotFound, id)
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return nil
}

func (s *Store) index(id domain.EntryID) int {
	return slices.IndexFunc(s.entries, func(e domain.Entry) bool { return e.ID == id })
}
