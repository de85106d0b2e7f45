package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

func testSnapshot(t *testing.T, entries ...catalog.Entry) catalog.Snapshot {
	t.Helper()
	sizes, err := catalog.NewSizeSet(catalog.SizeSmall, catalog.SizeLarge)
	require.NoError(t, err)
	snap, err := catalog.NewSnapshot(sizes, entries)
	require.NoError(t, err)
	return snap
}

func scenarioSnapshot(t *testing.T) catalog.Snapshot {
	a := entry(1, "A", 10, 20)
	a.Modifiers = []string{"olives", "onion"}
	return testSnapshot(t, a, entry(2, "B", 12, 22), entry(3, "C", 15, 25))
}

func TestAdd_MergesIdenticalAdditions(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	snap := scenarioSnapshot(t)

	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, Plain()))
	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, Plain()))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, KindPlain, items[0].Kind)
	assert.Equal(t, "A", items[0].Name)
}

func TestAdd_DistinctSizesAndCompositionsDoNotMerge(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	snap := scenarioSnapshot(t)

	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, Plain()))
	require.NoError(t, c.Add(snap, 1, catalog.SizeLarge, Plain()))
	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, WithModifiers("olives")))
	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, WithModifiers("onion", "olives")))
	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, WithModifiers("olives")))

	items := c.Items()
	require.Len(t, items, 4)
	assert.Equal(t, 2, items[2].Quantity)
	assert.Equal(t, "A (Custom)", items[2].Name)
	assert.True(t, items[2].UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestAdd_CombinationPricedAtMostExpensive(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	snap := scenarioSnapshot(t)

	require.NoError(t, c.Add(snap, 2, catalog.SizeLarge, Combination(2, 1)))
	require.NoError(t, c.Add(snap, 2, catalog.SizeLarge, Combination(2, 1)))
	require.NoError(t, c.Add(snap, 1, catalog.SizeLarge, Combination(1, 2)))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Custom Pizza (B, A)", items[0].Name)
	assert.Equal(t, KindCombination, items[0].Kind)
	assert.Equal(t, []string{"2", "1"}, items[0].Signature)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(22)))
	assert.Equal(t, catalog.EntryID(1), items[1].BaseEntryID)
}

func TestAdd_CombinationPolicy(t *testing.T) {
	snap := scenarioSnapshot(t)

	c := NewCart(DefaultComboPolicy())
	err := c.Add(snap, 1, catalog.SizeLarge, Combination(1))
	assert.ErrorIs(t, err, ErrCombinationSize)
	assert.Zero(t, c.Len())

	unbounded := NewCart(ComboPolicy{})
	require.NoError(t, unbounded.Add(snap, 1, catalog.SizeLarge, Combination(1)))

	err = unbounded.Add(snap, 1, catalog.SizeLarge, Combination(1, 1))
	assert.ErrorIs(t, err, ErrInvalidComposition)

	err = unbounded.Add(snap, 2, catalog.SizeLarge, Combination(1, 2))
	assert.ErrorIs(t, err, ErrInvalidComposition)
}

func TestAdd_UnknownReferences(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	snap := scenarioSnapshot(t)

	assert.ErrorIs(t, c.Add(snap, 99, catalog.SizeSmall, Plain()), ErrUnknownCatalogEntry)
	assert.ErrorIs(t, c.Add(snap, 1, catalog.SizeSmall, Combination(1, 99)), ErrUnknownCatalogEntry)
	assert.ErrorIs(t, c.Add(snap, 1, catalog.SizeMedium, Plain()), ErrUnknownSize)
	assert.ErrorIs(t, c.Add(snap, 1, catalog.SizeSmall, WithModifiers("pineapple")), ErrUnknownModifier)
	assert.ErrorIs(t, c.Add(snap, 1, catalog.SizeSmall, WithModifiers()), ErrInvalidComposition)
	assert.Zero(t, c.Len())
}

func TestAdd_FrozenPriceSurvivesCatalogChange(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	require.NoError(t, c.Add(testSnapshot(t, entry(1, "A", 10, 20)), 1, catalog.SizeSmall, Plain()))

	repriced := testSnapshot(t, entry(1, "A", 50, 60))
	require.NoError(t, c.Add(repriced, 1, catalog.SizeSmall, Plain()))

	items := c.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(20)))
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		c := NewCart(DefaultComboPolicy())
		snap := scenarioSnapshot(t)
		require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, Plain()))
		require.NoError(t, c.Add(snap, 2, catalog.SizeSmall, Plain()))

		require.NoError(t, c.UpdateQuantity(0, q))

		items := c.Items()
		require.Len(t, items, 1)
		assert.Equal(t, catalog.EntryID(2), items[0].BaseEntryID)
	}
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	require.NoError(t, c.Add(scenarioSnapshot(t), 1, catalog.SizeSmall, Plain()))

	require.NoError(t, c.UpdateQuantity(0, 5))
	assert.Equal(t, 5, c.ItemCount())
}

func TestStaleIndex_ReturnsErrorAndKeepsCart(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	require.NoError(t, c.Add(scenarioSnapshot(t), 1, catalog.SizeSmall, Plain()))

	assert.ErrorIs(t, c.UpdateQuantity(3, 2), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.UpdateQuantity(-1, 0), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Remove(1), ErrIndexOutOfRange)
	assert.Equal(t, 1, c.ItemCount())
}

func TestRemoveAndClear(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	snap := scenarioSnapshot(t)
	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, Plain()))
	require.NoError(t, c.Add(snap, 2, catalog.SizeSmall, Plain()))

	require.NoError(t, c.Remove(1))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.True(t, c.Total().IsZero())
	assert.Zero(t, c.ItemCount())
}

func TestTotalAndItemCount(t *testing.T) {
	sizes, err := catalog.NewSizeSet(catalog.SizeSmall)
	require.NoError(t, err)
	snap, err := catalog.NewSnapshot(sizes, []catalog.Entry{
		{ID: 1, Name: "A", Prices: map[catalog.Size]decimal.Decimal{catalog.SizeSmall: decimal.RequireFromString("12.50")}},
		{ID: 2, Name: "B", Prices: map[catalog.Size]decimal.Decimal{catalog.SizeSmall: decimal.RequireFromString("30.00")}},
	})
	require.NoError(t, err)

	c := NewCart(DefaultComboPolicy())
	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, Plain()))
	require.NoError(t, c.Add(snap, 1, catalog.SizeSmall, Plain()))
	require.NoError(t, c.Add(snap, 2, catalog.SizeSmall, Plain()))

	assert.Equal(t, "55.00", c.Total().StringFixed(2))
	assert.Equal(t, 3, c.ItemCount())
}

func TestEmptyCartTotals(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	assert.True(t, c.Total().IsZero())
	assert.Zero(t, c.ItemCount())
	assert.Empty(t, c.Items())
}

func TestItems_ReturnsCopies(t *testing.T) {
	c := NewCart(DefaultComboPolicy())
	require.NoError(t, c.Add(scenarioSnapshot(t), 1, catalog.SizeSmall, WithModifiers("olives")))

	items := c.Items()
	items[0].Quantity = 40
	items[0].Signature[0] = "changed"

	again := c.Items()
	assert.Equal(t, 1, again[0].Quantity)
	assert.Equal(t, []string{"olives"}, again[0].Signature)
}
