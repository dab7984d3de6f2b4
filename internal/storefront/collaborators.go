// Package storefront drives a single product page: it applies shopper
// choices through the catalog reducer and runs the resulting network effects
// (soft navigation and add-to-cart) through injected collaborators.
package storefront

import (
	"context"
	"errors"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

var (
	ErrNavigation = errors.New("SOFT_NAVIGATION_FAILED")
	ErrCartSubmit = errors.New("CART_SUBMIT_FAILED")
)

// VisitOptions are the flags of a soft navigation.
type VisitOptions struct {
	PreserveScroll bool
	PreserveState  bool
}

// Navigator re-requests the current page with a new selection and returns
// the refreshed product payload.
type Navigator interface {
	Visit(ctx context.Context, pageURL string, options catalog.OptionIDs, opts VisitOptions) (*models.Product, error)
}

// CartRequest is the body of an add-to-cart call.
type CartRequest struct {
	ProductID int               `json:"-"`
	OptionIDs catalog.OptionIDs `json:"options_ids"`
	Quantity  int               `json:"quantity"`
}

// CartClient posts a cart line to the cart endpoint.
type CartClient interface {
	AddToCart(ctx context.Context, req CartRequest) error
}
