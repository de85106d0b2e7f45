package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

// Store persists menu entries. Insert assigns the id.
type Store interface {
	List(ctx context.Context) ([]domain.Entry, error)
	Insert(ctx context.Context, e domain.Entry) (domain.Entry, error)
	Update(ctx context.Context, e domain.Entry) error
	Delete(ctx context.Context, id domain.EntryID) error
}

type Service struct {
	log   *slog.Logger
	store Store
	sizes domain.SizeSet
}

func NewService(log *slog.Logger, store Store, sizes domain.SizeSet) *Service {
	return &Service{log: log, store: store, sizes: sizes}
}

// Snapshot reads the current menu into an immutable snapshot. Each cart
// mutation works against a fresh snapshot. Stored entries that do not price
// exactly the configured sizes are left out and logged.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("list menu: %w", err)
	}
	valid := entries[:0]
	for _, e := range entries {
		if err := e.Validate(s.sizes); err != nil {
			s.log.Warn("menu entry skipped", "entry_id", e.ID, "err", err)
			continue
		}
		valid = append(valid, e)
	}
	return domain.NewSnapshot(s.sizes, valid)
}

func (s *Service) Sizes() domain.SizeSet { return s.sizes }

func (s *Service) Create(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	if err := e.Validate(s.sizes); err != nil {
		return domain.Entry{}, err
	}
	e.ID = 0
	created, err := s.store.Insert(ctx, e)
	if err != nil {
		return domain.Entry{}, err
	}
	s.log.Info("menu entry created", "entry_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id domain.EntryID, e domain.Entry) (domain.Entry, error) {
	e.ID = id
	if err := e.Validate(s.sizes); err != nil {
		return domain.Entry{}, err
	}
	if err := s.store.Update(ctx, e); err != nil {
		return domain.Entry{}, err
	}
	s.log.Info("menu entry updated", "entry_id", id)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id domain.EntryID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("menu entry deleted", "entry_id", id)
	return nil
}
