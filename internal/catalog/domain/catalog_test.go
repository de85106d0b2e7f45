package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSizes(t *testing.T) SizeSet {
	t.Helper()
	s, err := NewSizeSet(SizeSmall, SizeLarge)
	require.NoError(t, err)
	return s
}

func TestNewSizeSet_RejectsEmptyAndDuplicates(t *testing.T) {
	_, err := NewSizeSet()
	assert.ErrorIs(t, err, ErrEmptySizeSet)

	_, err = NewSizeSet(SizeSmall, SizeSmall)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestNewSnapshot_RequiresFullSizeCoverage(t *testing.T) {
	sizes := twoSizes(t)
	partial := Entry{ID: 1, Name: "A", Prices: map[Size]decimal.Decimal{SizeSmall: decimal.NewFromInt(10)}}

	_, err := NewSnapshot(sizes, []Entry{partial})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestNewSnapshot_RejectsUnsupportedSizeAndNegativePrice(t *testing.T) {
	sizes := twoSizes(t)

	extra := Entry{ID: 1, Name: "A", Prices: map[Size]decimal.Decimal{
		SizeSmall: decimal.NewFromInt(10), SizeLarge: decimal.NewFromInt(20), SizeMedium: decimal.NewFromInt(15),
	}}
	_, err := NewSnapshot(sizes, []Entry{extra})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	negative := Entry{ID: 2, Name: "B", Prices: map[Size]decimal.Decimal{
		SizeSmall: decimal.NewFromInt(-1), SizeLarge: decimal.NewFromInt(20),
	}}
	_, err = NewSnapshot(sizes, []Entry{negative})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestNewSnapshot_RejectsDuplicateIDs(t *testing.T) {
	sizes := twoSizes(t)
	prices := map[Size]decimal.Decimal{SizeSmall: decimal.NewFromInt(1), SizeLarge: decimal.NewFromInt(2)}

	_, err := NewSnapshot(sizes, []Entry{{ID: 1, Name: "A", Prices: prices}, {ID: 1, Name: "B", Prices: prices}})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestSnapshot_IsolatedFromCallerMutation(t *testing.T) {
	sizes := twoSizes(t)
	prices := map[Size]decimal.Decimal{SizeSmall: decimal.NewFromInt(10), SizeLarge: decimal.NewFromInt(20)}
	entries := []Entry{{ID: 1, Name: "A", Prices: prices, Modifiers: []string{"olives"}}}

	snap, err := NewSnapshot(sizes, entries)
	require.NoError(t, err)

	prices[SizeSmall] = decimal.NewFromInt(99)
	entries[0].Modifiers[0] = "anchovies"

	got, ok := snap.Lookup(1)
	require.True(t, ok)
	assert.True(t, got.Prices[SizeSmall].Equal(decimal.NewFromInt(10)))
	assert.Equal(t, []string{"olives"}, got.Modifiers)

	got.Prices[SizeLarge] = decimal.NewFromInt(1)
	again, _ := snap.Lookup(1)
	assert.True(t, again.Prices[SizeLarge].Equal(decimal.NewFromInt(20)))
}

func TestSnapshot_LookupMissing(t *testing.T) {
	snap, err := NewSnapshot(twoSizes(t), nil)
	require.NoError(t, err)

	_, ok := snap.Lookup(42)
	assert.False(t, ok)
	assert.Empty(t, snap.Entries())
}
