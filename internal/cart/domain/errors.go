package domain

import "errors"

var (
	ErrUnknownCatalogEntry = errors.New("unknown catalog entry")
	ErrUnknownSize         = errors.New("unknown size")
	ErrUnknownModifier     = errors.New("unknown modifier")
	ErrPriceNotFound       = errors.New("price not found")
	ErrEmptyCombination    = errors.New("combination has no entries")
	ErrCombinationSize     = errors.New("combination size out of range")
	ErrIndexOutOfRange     = errors.New("cart index out of range")
	ErrInvalidComposition  = errors.New("invalid composition")
)
