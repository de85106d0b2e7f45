package domain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidEntry  = errors.New("invalid catalog entry")
	ErrDuplicateID   = errors.New("duplicate catalog entry id")
	ErrEmptySizeSet  = errors.New("size set is empty")
	ErrEntryNotFound = errors.New("catalog entry not found")
)

type EntryID int64

// Size is one portion option. The set of sizes a deployment sells is a
// SizeSet; nothing in the catalog or cart hard-codes a particular set.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// SizeSet is an ordered, closed set of sizes.
type SizeSet struct {
	sizes []Size
}

func NewSizeSet(sizes ...Size) (SizeSet, error) {
	if len(sizes) == 0 {
		return SizeSet{}, ErrEmptySizeSet
	}
	out := make([]Size, 0, len(sizes))
	for _, s := range sizes {
		if s == "" {
			return SizeSet{}, fmt.Errorf("%w: blank size", ErrInvalidEntry)
		}
		if slices.Contains(out, s) {
			return SizeSet{}, fmt.Errorf("%w: size %q listed twice", ErrInvalidEntry, s)
		}
		out = append(out, s)
	}
	return SizeSet{sizes: out}, nil
}

func (s SizeSet) Contains(size Size) bool { return slices.Contains(s.sizes, size) }
func (s SizeSet) Sizes() []Size            { return slices.Clone(s.sizes) }
func (s SizeSet) Len() int                 { return len(s.sizes) }

type Entry struct {
	ID          EntryID                  `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Image       string                   `json:"image,omitempty"`
	Prices      map[Size]decimal.Decimal `json:"prices"`
	Modifiers   []string                 `json:"modifiers,omitempty"`
}

// Validate checks that the entry prices exactly the sizes in the set, with
// non-negative amounts.
func (e Entry) Validate(sizes SizeSet) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidEntry)
	}
	for _, s := range sizes.sizes {
		p, ok := e.Prices[s]
		if !ok {
			return fmt.Errorf("%w: %q has no %s price", ErrInvalidEntry, e.Name, s)
		}
		if p.IsNegative() {
			return fmt.Errorf("%w: %q has a negative %s price", ErrInvalidEntry, e.Name, s)
		}
	}
	for s := range e.Prices {
		if !sizes.Contains(s) {
			return fmt.Errorf("%w: %q prices unsupported size %q", ErrInvalidEntry, e.Name, s)
		}
	}
	return nil
}

func (e Entry) clone() Entry {
	c := e
	c.Prices = make(map[Size]decimal.Decimal, len(e.Prices))
	for k, v := range e.Prices {
		c.Prices[k] = v
	}
	c.Modifiers = slices.Clone(e.Modifiers)
	return c
}

// Snapshot is an immutable view of the catalog at one point in time. Values
// returned from it are copies, so callers cannot mutate the snapshot.
type Snapshot struct {
	sizes   SizeSet
	entries []Entry
	byID    map[EntryID]int
}

func NewSnapshot(sizes SizeSet, entries []Entry) (Snapshot, error) {
	if sizes.Len() == 0 {
		return Snapshot{}, ErrEmptySizeSet
	}
	snap := Snapshot{
		sizes:   SizeSet{sizes: slices.Clone(sizes.sizes)},
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[EntryID]int, len(entries)),
	}
	for _, e := range entries {
		if err := e.Validate(sizes); err != nil {
			return Snapshot{}, err
		}
		if _, dup := snap.byID[e.ID]; dup {
			return Snapshot{}, fmt.Errorf("%w: %d", ErrDuplicateID, e.ID)
		}
		snap.byID[e.ID] = len(snap.entries)
		snap.entries = append(snap.entries, e.clone())
	}
	return snap, nil
}

func (s Snapshot) Sizes() SizeSet { return s.sizes }

func (s Snapshot) Lookup(id EntryID) (Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i].clone(), true
}

func (s Snapshot) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.clone())
	}
	return out
}
