package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_catalog/internal/models"
)

// CartRepository persists cart lines.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Add inserts a cart line, or adds to the quantity of the line with the same
// customer, product and option set. item is updated with the stored row.
func (r *CartRepository) Add(ctx context.Context, item *models.CartItem) error {
	const q = `
        INSERT INTO cart_items (customer_id, product_id, option_ids, options_key, quantity, price)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (customer_id, product_id, options_key) DO UPDATE SET
            quantity = cart_items.quantity + EXCLUDED.quantity,
            price = EXCLUDED.price,
            option_ids = EXCLUDED.option_ids,
            updated_at = NOW()
        RETURNING id, quantity, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		item.CustomerID,
		item.ProductID,
		string(item.OptionIDs),
		item.OptionsKey,
		item.Quantity,
		item.Price,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
}

// ListByCustomer returns a customer's cart lines, newest first.
func (r *CartRepository) ListByCustomer(ctx context.Context, customerID int) ([]models.CartItem, error) {
	const q = `SELECT id, customer_id, product_id, option_ids, options_key, quantity, price, created_at, updated_at
        FROM cart_items WHERE customer_id = $1 ORDER BY updated_at DESC`
	var items []models.CartItem
	if err := r.db.SelectContext(ctx, &items, q, customerID); err != nil {
		return nil, err
	}
	return items, nil
}
