package catalog

import "errors"

var (
	ErrInvalidQuantity = errors.New("INVALID_QUANTITY")
	ErrOutOfStock      = errors.New("OUT_OF_STOCK")
)
