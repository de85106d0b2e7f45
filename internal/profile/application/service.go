package application

import (
	"context"
	"log/slog"

	"github.com/dmehra2102/pizzeria-ordering/internal/profile/domain"
)

type Store interface {
	Load(ctx context.Context) (domain.Profile, error)
	Save(ctx context.Context, p domain.Profile) error
}

type Service struct {
	log   *slog.Logger
	store Store
}

func NewService(log *slog.Logger, store Store) *Service {
	return &Service{log: log, store: store}
}

func (s *Service) Profile(ctx context.Context) (domain.Profile, error) {
	return s.store.Load(ctx)
}

func (s *Service) Update(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	if err := p.Validate(); err != nil {
		return domain.Profile{}, err
	}
	if err := s.store.Save(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	s.log.Info("store profile updated", "name", p.Name)
	return p, nil
}
