package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	catalog "github.com/dmehra2102/pizzeria-ordering/internal/catalog/domain"
)

// ComboPolicy bounds how many entries a multi-entry combination may hold.
// Zero on either side means unbounded.
type ComboPolicy struct {
	Min int
	Max int
}

func DefaultComboPolicy() ComboPolicy { return ComboPolicy{Min: 2, Max: 4} }

func (p ComboPolicy) check(n int) error {
	if p.Min > 0 && n < p.Min {
		return fmt.Errorf("%w: %d selected, minimum %d", ErrCombinationSize, n, p.Min)
	}
	if p.Max > 0 && n > p.Max {
		return fmt.Errorf("%w: %d selected, maximum %d", ErrCombinationSize, n, p.Max)
	}
	return nil
}

// Cart is an ordered list of line items. It is not safe for concurrent use;
// callers serialise access per session.
type Cart struct {
	policy ComboPolicy
	items  []LineItem
}

func NewCart(policy ComboPolicy) *Cart {
	return &Cart{policy: policy}
}

// Add resolves the composition against the snapshot and either bumps the
// quantity of an equivalent row or appends a new one. For combinations
// baseID must be the first selected entry.
func (c *Cart) Add(snap catalog.Snapshot, baseID catalog.EntryID, size catalog.Size, comp Composition) error {
	if !snap.Sizes().Contains(size) {
		return fmt.Errorf("%w: %q", ErrUnknownSize, size)
	}
	if comp.Kind == "" {
		comp.Kind = KindPlain
	}

	item, err := c.resolve(snap, baseID, size, comp)
	if err != nil {
		return err
	}

	key := item.Key()
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity++
			return nil
		}
	}
	c.items = append(c.items, item)
	return nil
}

func (c *Cart) resolve(snap catalog.Snapshot, baseID catalog.EntryID, size catalog.Size, comp Composition) (LineItem, error) {
	item := LineItem{
		BaseEntryID: baseID,
		Size:        size,
		Quantity:    1,
		Kind:        comp.Kind,
		Signature:   comp.signature(),
	}

	switch comp.Kind {
	case KindPlain, KindModifiers:
		base, ok := snap.Lookup(baseID)
		if !ok {
			return LineItem{}, fmt.Errorf("%w: %d", ErrUnknownCatalogEntry, baseID)
		}
		if comp.Kind == KindModifiers {
			if len(comp.Modifiers) == 0 {
				return LineItem{}, fmt.Errorf("%w: no modifiers selected", ErrInvalidComposition)
			}
			if len(base.Modifiers) > 0 {
				for _, m := range comp.Modifiers {
					if !slices.Contains(base.Modifiers, m) {
						return LineItem{}, fmt.Errorf("%w: %q on %q", ErrUnknownModifier, m, base.Name)
					}
				}
			}
		}
		price, err := ModifierPrice(base, size, comp.Modifiers)
		if err != nil {
			return LineItem{}, err
		}
		item.UnitPrice = price
		item.Name = DisplayName(comp.Kind, base, nil)

	case KindCombination:
		if err := c.policy.check(len(comp.EntryIDs)); err != nil {
			return LineItem{}, err
		}
		if len(comp.EntryIDs) == 0 {
			return LineItem{}, ErrEmptyCombination
		}
		if comp.EntryIDs[0] != baseID {
			return LineItem{}, fmt.Errorf("%w: base entry %d is not the first selection", ErrInvalidComposition, baseID)
		}
		entries := make([]catalog.Entry, 0, len(comp.EntryIDs))
		seen := make(map[catalog.EntryID]struct{}, len(comp.EntryIDs))
		for _, id := range comp.EntryIDs {
			if _, dup := seen[id]; dup {
				return LineItem{}, fmt.Errorf("%w: entry %d selected twice", ErrInvalidComposition, id)
			}
			seen[id] = struct{}{}
			e, ok := snap.Lookup(id)
			if !ok {
				return LineItem{}, fmt.Errorf("%w: %d", ErrUnknownCatalogEntry, id)
			}
			entries = append(entries, e)
		}
		price, err := CombinationPrice(entries, size)
		if err != nil {
			return LineItem{}, err
		}
		item.UnitPrice = price
		item.Name = DisplayName(comp.Kind, entries[0], entries)

	default:
		return LineItem{}, fmt.Errorf("%w: kind %q", ErrInvalidComposition, comp.Kind)
	}
	return item, nil
}

// UpdateQuantity sets the quantity of the row at index; a quantity of zero or
// less removes the row. A stale index returns ErrIndexOutOfRange and leaves
// the cart untouched.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if quantity <= 0 {
		c.items = slices.Delete(c.items, index, index+1)
		return nil
	}
	c.items[index].Quantity = quantity
	return nil
}

func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.items = slices.Delete(c.items, index, index+1)
	return nil
}

func (c *Cart) Clear() { c.items = nil }

func (c *Cart) Len() int { return len(c.items) }

// Items returns a deep copy of the rows in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.Clone())
	}
	return out
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}
