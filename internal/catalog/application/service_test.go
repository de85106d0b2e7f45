package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
	"github.com/dmehra2102/pizzeria-ordering/internal/catalog/infrastructure/memory"
)

func allSizes(t *testing.T) domain.SizeSet {
	t.Helper()
	sizes, err := domain.NewSizeSet(domain.SizeSmall, domain.SizeMedium, domain.SizeLarge)
	require.NoError(t, err)
	return sizes
}

func newService(t *testing.T, sizes domain.SizeSet) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), memory.NewStore(memory.Seed(sizes)), sizes)
}

func prices(small, medium, large int64) map[domain.Size]decimal.Decimal {
	return map[domain.Size]decimal.Decimal{
		domain.SizeSmall:  decimal.NewFromInt(small),
		domain.SizeMedium: decimal.NewFromInt(medium),
		domain.SizeLarge:  decimal.NewFromInt(large),
	}
}

func TestSnapshotServesSeedMenu(t *testing.T) {
	svc := newService(t, allSizes(t))

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Entries(), 4)

	e, ok := snap.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "Quattro Formaggi Cyber", e.Name)
	assert.Equal(t, "55", e.Prices[domain.SizeLarge].String())
}

func TestSeedFollowsConfiguredSizes(t *testing.T) {
	sizes, err := domain.NewSizeSet(domain.SizeSmall, domain.SizeLarge)
	require.NoError(t, err)

	snap, err := newService(t, sizes).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Entries(), 4)
	_, hasMedium := snap.Entries()[0].Prices[domain.SizeMedium]
	assert.False(t, hasMedium)

	family, err := domain.NewSizeSet(domain.SizeSmall, "family")
	require.NoError(t, err)
	assert.Empty(t, memory.Seed(family))
}

func TestCreateAssignsNextID(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, allSizes(t))

	e, err := svc.Create(ctx, domain.Entry{ID: 99, Name: "Calabresa", Prices: prices(27, 37, 47)})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryID(5), e.ID)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	_, ok := snap.Lookup(5)
	assert.True(t, ok)
}

func TestCreateRejectsIncompletePrices(t *testing.T) {
	svc := newService(t, allSizes(t))

	_, err := svc.Create(context.Background(), domain.Entry{Name: "Meia", Prices: map[domain.Size]decimal.Decimal{
		domain.SizeSmall: decimal.NewFromInt(10),
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, allSizes(t))

	_, err := svc.Update(ctx, 1, domain.Entry{Name: "Margherita", Prices: prices(26, 36, 46)})
	require.NoError(t, err)

	snap, _ := svc.Snapshot(ctx)
	e, _ := snap.Lookup(1)
	assert.Equal(t, "Margherita", e.Name)
	assert.Equal(t, "26", e.Prices[domain.SizeSmall].String())

	require.NoError(t, svc.Delete(ctx, 1))
	snap, _ = svc.Snapshot(ctx)
	_, ok := snap.Lookup(1)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.Delete(ctx, 1), domain.ErrEntryNotFound)
	_, err = svc.Update(ctx, 1, domain.Entry{Name: "X", Prices: prices(1, 2, 3)})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestSnapshotSkipsEntriesOutsideSizeSet(t *testing.T) {
	sizes, err := domain.NewSizeSet(domain.SizeSmall, domain.SizeLarge)
	require.NoError(t, err)

	stored := append(memory.Seed(sizes), domain.Entry{ID: 9, Name: "Legacy", Prices: prices(20, 30, 40)})
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), memory.NewStore(stored), sizes)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Entries(), 4)
	_, ok := snap.Lookup(9)
	assert.False(t, ok)
	_, ok = snap.Lookup(1)
	assert.True(t, ok)
}
