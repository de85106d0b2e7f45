package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

// PlainPrice is the entry's price for the size.
func PlainPrice(entry catalog.Entry, size catalog.Size) (decimal.Decimal, error) {
	p, ok := entry.Prices[size]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: entry %d size %s", ErrPriceNotFound, entry.ID, size)
	}
	return p, nil
}

// ModifierPrice prices a modifier-customized item. Modifiers are flavour
// choices, not upsells: the price is the plain size price.
func ModifierPrice(entry catalog.Entry, size catalog.Size, _ []string) (decimal.Decimal, error) {
	return PlainPrice(entry, size)
}

// CombinationPrice prices a multi-entry combination at its most expensive
// constituent. Any non-empty selection is accepted; selection-count limits
// belong to the caller.
func CombinationPrice(entries []catalog.Entry, size catalog.Size) (decimal.Decimal, error) {
	if len(entries) == 0 {
		return decimal.Zero, ErrEmptyCombination
	}
	prices := make([]decimal.Decimal, 0, len(entries))
	for _, e := range entries {
		p, err := PlainPrice(e, size)
		if err != nil {
			return decimal.Zero, err
		}
		prices = append(prices, p)
	}
	return decimal.Max(prices[0], prices[1:]...), nil
}

const combinationLabel = "Custom Pizza"

// DisplayName synthesizes the line item name for a composition. Combination
// names list constituents in selection order.
func DisplayName(kind CompositionKind, base catalog.Entry, entries []catalog.Entry) string {
	switch kind {
	case KindModifiers:
		return base.Name + " (Custom)"
	case KindCombination:
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		return combinationLabel + " (" + strings.Join(names, ", ") + ")"
	default:
		return base.Name
	}
}
