package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
	"github.com/GTDGit/gtd_catalog/internal/utils"
)

// CartStore persists cart lines.
type CartStore interface {
	Add(ctx context.Context, item *models.CartItem) error
}

// ProductLookup loads a product snapshot by id.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id int) (*models.Product, error)
}

// AddToCartInput is a cart request from an authenticated customer.
type AddToCartInput struct {
	CustomerID int
	ProductID  int
	OptionIDs  catalog.OptionIDs
	Quantity   int
}

// CartService validates and stores cart lines.
type CartService struct {
	products ProductLookup
	carts    CartStore
}

// NewCartService constructs a CartService.
func NewCartService(products ProductLookup, carts CartStore) *CartService {
	return &CartService{products: products, carts: carts}
}

// AddToCart re-resolves the submitted selection against the current product
// snapshot and stores the line at the resolved price.
func (s *CartService) AddToCart(ctx context.Context, in AddToCartInput) (*models.CartItem, error) {
	product, err := s.products.GetProductByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	selection, err := selectionFor(product, in.OptionIDs)
	if err != nil {
		return nil, err
	}

	res := catalog.NewResolver(product).Resolve(selection)
	if err := res.Quantity.ValidateQuantity(in.Quantity); err != nil {
		switch {
		case errors.Is(err, catalog.ErrOutOfStock):
			return nil, utils.ErrOutOfStock
		default:
			return nil, fmt.Errorf("%w: %v", utils.ErrInvalidQuantity, err)
		}
	}

	ids := selection.OptionIDMap()
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode option ids: %w", err)
	}

	item := &models.CartItem{
		CustomerID: in.CustomerID,
		ProductID:  product.ID,
		OptionIDs:  raw,
		OptionsKey: catalog.CanonicalKey(selection.OptionIDs()),
		Quantity:   in.Quantity,
		Price:      res.Price,
	}
	if err := s.carts.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to store cart item: %w", err)
	}

	log.Info().
		Int("customer_id", in.CustomerID).
		Int("product_id", product.ID).
		Str("options_key", item.OptionsKey).
		Int("quantity", item.Quantity).
		Msg("Cart item stored")

	return item, nil
}

// selectionFor builds a selection from submitted ids. Every declared type
// must be chosen and every id must name an option of its type.
func selectionFor(product *models.Product, ids catalog.OptionIDs) (catalog.Selection, error) {
	selection := catalog.NewSelection()
	for _, typeID := range ids.TypeIDs() {
		vt, ok := product.FindType(typeID)
		if !ok {
			return selection, fmt.Errorf("%w: unknown variation type %d", utils.ErrInvalidOptions, typeID)
		}
		opt, ok := vt.FindOption(ids[typeID])
		if !ok {
			return selection, fmt.Errorf("%w: option %d is not part of %q", utils.ErrInvalidOptions, ids[typeID], vt.Name)
		}
		selection = selection.Choose(typeID, opt)
	}
	for _, vt := range product.VariationTypes {
		if len(vt.Options) == 0 {
			continue
		}
		if _, ok := selection.Option(vt.ID); !ok {
			return selection, fmt.Errorf("%w: %q not chosen", utils.ErrIncompleteOptions, vt.Name)
		}
	}
	return selection, nil
}
