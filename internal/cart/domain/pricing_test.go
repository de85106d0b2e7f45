package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

func entry(id catalog.EntryID, name string, small, large int64) catalog.Entry {
	return catalog.Entry{
		ID:   id,
		Name: name,
		Prices: map[catalog.Size]decimal.Decimal{
			catalog.SizeSmall: decimal.NewFromInt(small),
			catalog.SizeLarge: decimal.NewFromInt(large),
		},
	}
}

func TestPlainPrice(t *testing.T) {
	p, err := PlainPrice(entry(1, "A", 10, 20), catalog.SizeLarge)
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(20)))

	_, err = PlainPrice(entry(1, "A", 10, 20), catalog.SizeMedium)
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestModifierPrice_ModifiersAreFree(t *testing.T) {
	e := entry(1, "A", 10, 20)

	plain, err := PlainPrice(e, catalog.SizeSmall)
	require.NoError(t, err)
	custom, err := ModifierPrice(e, catalog.SizeSmall, []string{"extra cheese", "olives"})
	require.NoError(t, err)

	assert.True(t, plain.Equal(custom))
}

func TestCombinationPrice_MaxRegardlessOfOrder(t *testing.T) {
	a, b, c := entry(1, "A", 10, 0), entry(2, "B", 20, 0), entry(3, "C", 15, 0)

	orders := [][]catalog.Entry{{a, b, c}, {c, b, a}, {b, a, c}, {a, c, b}}
	for _, sel := range orders {
		p, err := CombinationPrice(sel, catalog.SizeSmall)
		require.NoError(t, err)
		assert.True(t, p.Equal(decimal.NewFromInt(20)), "got %s", p)
	}
}

func TestCombinationPrice_SingleEntryAndEmpty(t *testing.T) {
	p, err := CombinationPrice([]catalog.Entry{entry(1, "A", 10, 20)}, catalog.SizeSmall)
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(10)))

	_, err = CombinationPrice(nil, catalog.SizeSmall)
	assert.ErrorIs(t, err, ErrEmptyCombination)
}

func TestDisplayName(t *testing.T) {
	a, b := entry(1, "Margherita", 10, 20), entry(2, "Pepperoni", 12, 22)

	assert.Equal(t, "Margherita", DisplayName(KindPlain, a, nil))
	assert.Equal(t, "Margherita (Custom)", DisplayName(KindModifiers, a, nil))
	assert.Equal(t, "Custom Pizza (Pepperoni, Margherita)", DisplayName(KindCombination, b, []catalog.Entry{b, a}))
}
