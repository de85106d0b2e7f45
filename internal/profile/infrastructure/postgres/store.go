package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/pizzeria-ordering/internal/profile/domain"
)

// Store keeps the profile in the single-row store_profile table. Until the
// row exists, Load returns the fallback profile.
type Store struct {
	log      *slog.Logger
	pool     *pgxpool.Pool
	fallback domain.Profile
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool, fallback domain.Profile) *Store {
	return &Store{log: log, pool: pool, fallback: fallback}
}

func (s *Store) Load(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	err := s.pool.QueryRow(ctx, `SELECT name, subtitle, address, phone, logo FROM store_profile WHERE id = 1`).
		Scan(&p.Name, &p.Subtitle, &p.Address, &p.Phone, &p.Logo)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.fallback, nil
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *Store) Save(ctx context.Context, p domain.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO store_profile (id, name, subtitle, address, phone, logo, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET name=$1, subtitle=$2, address=$3, phone=$4, logo=$5, updated_at=now()`,
		p.Name, p.Subtitle, p.Address, p.Phone, p.Logo)
	return err
}
