package domain

import (
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

type CompositionKind string

const (
	KindPlain       CompositionKind = "plain"
	KindModifiers   CompositionKind = "modifier_customized"
	KindCombination CompositionKind = "multi_entry_combination"
)

func (k CompositionKind) Valid() bool {
	switch k {
	case KindPlain, KindModifiers, KindCombination:
		return true
	}
	return false
}

// Composition describes how a line item is assembled. Build it with Plain,
// WithModifiers or Combination; only the payload matching Kind is set.
type Composition struct {
	Kind      CompositionKind
	Modifiers []string
	EntryIDs  []catalog.EntryID
}

func Plain() Composition { return Composition{Kind: KindPlain} }

func WithModifiers(names ...string) Composition {
	return Composition{Kind: KindModifiers, Modifiers: slices.Clone(names)}
}

func Combination(ids ...catalog.EntryID) Composition {
	return Composition{Kind: KindCombination, EntryIDs: slices.Clone(ids)}
}

func (c Composition) signature() []string {
	switch c.Kind {
	case KindModifiers:
		return slices.Clone(c.Modifiers)
	case KindCombination:
		sig := make([]string, 0, len(c.EntryIDs))
		for _, id := range c.EntryIDs {
			sig = append(sig, strconv.FormatInt(int64(id), 10))
		}
		return sig
	}
	return []string{}
}

// LineItem is one distinguishable row of a cart. UnitPrice is frozen when the
// row is created.
type LineItem struct {
	BaseEntryID catalog.EntryID `json:"base_entry_id"`
	Name        string          `json:"name"`
	Size        catalog.Size    `json:"size"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Kind        CompositionKind `json:"composition_kind"`
	Signature   []string        `json:"composition_signature"`
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Key is the merge identity of a line item.
func (l LineItem) Key() string {
	return mergeKey(l.Kind, l.BaseEntryID, l.Size, l.Signature)
}

func (l LineItem) Clone() LineItem {
	c := l
	c.Signature = slices.Clone(l.Signature)
	if c.Signature == nil {
		c.Signature = []string{}
	}
	return c
}

func mergeKey(kind CompositionKind, base catalog.EntryID, size catalog.Size, sig []string) string {
	var b strings.Builder
	b.WriteString(string(kind))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(int64(base), 10))
	b.WriteByte('|')
	b.WriteString(string(size))
	for _, s := range sig {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(s))
	}
	return b.String()
}
