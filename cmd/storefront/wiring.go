package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/pizzeria-ordering/configs"
	catalogapp "github.com/dmehra2102/pizzeria-ordering/internal/catalog/application"
	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
	catalogmem "github.com/dmehra2102/pizzeria-ordering/internal/catalog/infrastructure/memory"
	catalogpg "github.com/dmehra2102/pizzeria-ordering/internal/catalog/infrastructure/postgres"
	orderapp "github.com/dmehra2102/pizzeria-ordering/internal/order/application"
	order "github.com/dmehra2102/pizzeria-ordering/internal/order/domain"
	ordermem "github.com/dmehra2102/pizzeria-ordering/internal/order/infrastructure/memory"
	orderpg "github.com/dmehra2102/pizzeria-ordering/internal/order/infrastructure/postgres"
	profileapp "github.com/dmehra2102/pizzeria-ordering/internal/profile/application"
	profile "github.com/dmehra2102/pizzeria-ordering/internal/profile/domain"
	profilemem "github.com/dmehra2102/pizzeria-ordering/internal/profile/infrastructure/memory"
	profilepg "github.com/dmehra2102/pizzeria-ordering/internal/profile/infrastructure/postgres"
	"github.com/dmehra2102/pizzeria-ordering/migrations"
	"github.com/dmehra2102/pizzeria-ordering/pkg/outbox"
)

type stores struct {
	catalog catalogapp.Store
	profile profileapp.Store
	orders  orderapp.OrderRepository
	outbox  outbox.Store
	pool    *pgxpool.Pool
}

func (s stores) Close(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func sizeSet(names []string) (catalog.SizeSet, error) {
	sizes := make([]catalog.Size, 0, len(names))
	for _, n := range names {
		sizes = append(sizes, catalog.Size(n))
	}
	return catalog.NewSizeSet(sizes...)
}

func memoryStores(cfg configs.Config, sizes catalog.SizeSet) stores {
	orders := ordermem.NewRepository(cfg.Outbox.MaxRetries)
	return stores{
		catalog: catalogmem.NewStore(catalogmem.Seed(sizes)),
		profile: profilemem.NewStore(profile.Default()),
		orders:  orders,
		outbox:  orders,
	}
}

func postgresStores(ctx context.Context, log *slog.Logger, cfg configs.Config, sizes catalog.SizeSet) (stores, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		return stores{}, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		pcfg.MaxConns = cfg.Postgres.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return stores{}, fmt.Errorf("pg connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("pg ping: %w", err)
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return stores{}, err
	}

	menu := catalogpg.NewStore(log, pool)
	if err := menu.SeedIfEmpty(ctx, catalogmem.Seed(sizes)); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("seed menu: %w", err)
	}
	return stores{
		catalog: menu,
		profile: profilepg.NewStore(log, pool, profile.Default()),
		orders:  orderpg.NewRepository(log, pool),
		outbox:  orderpg.NewOutboxStore(log, pool, cfg.Outbox.MaxRetries),
		pool:    pool,
	}, nil
}

// merchantFrom reads the relay target from the live store profile so admin
// edits apply to the next checkout.
func merchantFrom(profiles *profileapp.Service) orderapp.MerchantSource {
	return orderapp.MerchantFunc(func(ctx context.Context) (order.Merchant, error) {
		p, err := profiles.Profile(ctx)
		if err != nil {
			return order.Merchant{}, err
		}
		return order.Merchant{Name: p.Name, Phone: p.Phone}, nil
	})
}
