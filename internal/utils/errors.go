package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrInvalidOptions     = errors.New("INVALID_OPTIONS")
	ErrIncompleteOptions  = errors.New("INCOMPLETE_OPTIONS")
	ErrInvalidQuantity    = errors.New("INVALID_QUANTITY")
	ErrOutOfStock         = errors.New("OUT_OF_STOCK")
)
