package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/pizzeria-ordering/internal/profile/domain"
	"github.com/dmehra2102/pizzeria-ordering/internal/profile/infrastructure/memory"
)

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), memory.NewStore(domain.Default()))

	p, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+5511940704836", p.Phone)

	updated := domain.Default()
	updated.Phone = "+55 21 3333-4444"
	updated.Logo = "https://cdn.example/logo.png"
	_, err = svc.Update(ctx, updated)
	require.NoError(t, err)

	got, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestProfileUpdateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), memory.NewStore(domain.Default()))

	bad := domain.Default()
	bad.Phone = "call us"
	_, err := svc.Update(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	bad = domain.Default()
	bad.Name = ""
	_, err = svc.Update(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	got, _ := svc.Profile(ctx)
	assert.Equal(t, domain.Default(), got)
}
