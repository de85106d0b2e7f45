package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

type Store struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	return &Store{log: log, pool: pool}
}

func (s *Store) List(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description, image, prices, modifiers FROM menu_entries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var (
			e                 domain.Entry
			prices, modifiers []byte
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Image, &prices, &modifiers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(prices, &e.Prices); err != nil {
			return nil, fmt.Errorf("entry %d prices: %w", e.ID, err)
		}
		if err := json.Unmarshal(modifiers, &e.Modifiers); err != nil {
			return nil, fmt.Errorf("entry %d modifiers: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Insert(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	prices, modifiers, err := encode(e)
	if err != nil {
		return domain.Entry{}, err
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO menu_entries (name, description, image, prices, modifiers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.Name, e.Description, e.Image, prices, modifiers).Scan(&e.ID)
	if err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

func (s *Store) Update(ctx context.Context, e domain.Entry) error {
	prices, modifiers, err := encode(e)
	if err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx, `
		UPDATE menu_entries SET name=$2, description=$3, image=$4, prices=$5, modifiers=$6, updated_at=now()
		WHERE id=$1`,
		e.ID, e.Name, e.Description, e.Image, prices, modifiers)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrEntryNotFound, e.ID)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.EntryID) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM menu_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrEntryNotFound, id)
	}
	return nil
}

// SeedIfEmpty inserts entries with their own ids when the table is empty and
// moves the id sequence past them.
func (s *Store) SeedIfEmpty(ctx context.Context, entries []domain.Entry) error {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM menu_entries`).Scan(&n); err != nil {
		return err
	}
	if n > 0 || len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		prices, modifiers, err := encode(e)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO menu_entries (id, name, description, image, prices, modifiers)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.Name, e.Description, e.Image, prices, modifiers); err != nil {
			return err
		}
	}
	_, err := s.pool.Exec(ctx, `SELECT setval(pg_get_serial_sequence('menu_entries', 'id'), (SELECT max(id) FROM menu_entries))`)
	if err == nil {
		s.log.Info("menu seeded", "entries", len(entries))
	}
	return err
}

func encode(e domain.Entry) ([]byte, []byte, error) {
	prices := e.Prices
	if prices == nil {
		prices = map[domain.Size]decimal.Decimal{}
	}
	p, err := json.Marshal(prices)
	if err != nil {
		return nil, nil, err
	}
	mods := e.Modifiers
	if mods == nil {
		mods = []string{}
	}
	m, err := json.Marshal(mods)
	if err != nil {
		return nil, nil, err
	}
	return p, m, nil
}
