package models

import "time"

// CartItem is a persisted cart line for a customer.
// OptionsKey is the canonical option-id set used to merge identical lines.
type CartItem struct {
	ID         int       `db:"id" json:"id"`
	CustomerID int       `db:"customer_id" json:"customerId"`
	ProductID  int       `db:"product_id" json:"productId"`
	OptionIDs  []byte    `db:"option_ids" json:"-"`
	OptionsKey string    `db:"options_key" json:"-"`
	Quantity   int       `db:"quantity" json:"quantity"`
	Price      float64   `db:"price" json:"price"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
