package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
)

// CartSubmitter sends the resolved selection to the cart endpoint.
type CartSubmitter struct {
	client  CartClient
	timeout time.Duration
}

// NewCartSubmitter constructs a CartSubmitter.
func NewCartSubmitter(client CartClient, timeout time.Duration) *CartSubmitter {
	return &CartSubmitter{client: client, timeout: timeout}
}

// Submit validates quantity against the resolved stock and posts one request.
// The caller's selection is never touched, so a failed submit can be retried
// as is.
func (c *CartSubmitter) Submit(ctx context.Context, productID int, ids catalog.OptionIDs, stock catalog.Stock, quantity int) error {
	if err := stock.ValidateQuantity(quantity); err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := CartRequest{ProductID: productID, OptionIDs: ids, Quantity: quantity}
	if err := c.client.AddToCart(ctx, req); err != nil {
		log.Error().Err(err).Int("product_id", productID).Int("quantity", quantity).Msg("Add to cart failed")
		return fmt.Errorf("%w: %w", ErrCartSubmit, err)
	}
	log.Info().Int("product_id", productID).Int("quantity", quantity).Msg("Added to cart")
	return nil
}
