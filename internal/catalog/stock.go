package catalog

import (
	"encoding/json"
	"fmt"
)

// MaxOrderQuantity caps the quantity selector and is the low-stock threshold.
const MaxOrderQuantity = 10

const unboundedLabel = "unbounded"

// Stock is a resolved quantity: either a finite count or unbounded.
type Stock struct {
	count   int
	limited bool
}

// UnboundedStock returns stock without a limit.
func UnboundedStock() Stock { return Stock{} }

// FiniteStock returns stock limited to n units.
func FiniteStock(n int) Stock { return Stock{count: n, limited: true} }

// StockOf converts a nullable quantity column; nil means unbounded.
func StockOf(q *int) Stock {
	if q == nil {
		return UnboundedStock()
	}
	return FiniteStock(*q)
}

// IsUnbounded reports whether there is no stock limit.
func (s Stock) IsUnbounded() bool { return !s.limited }

// Count returns the finite count. ok is false for unbounded stock.
func (s Stock) Count() (n int, ok bool) { return s.count, s.limited }

// Orderable returns the largest quantity the shopper may pick.
func (s Stock) Orderable() int {
	if !s.limited || s.count >= MaxOrderQuantity {
		return MaxOrderQuantity
	}
	if s.count < 0 {
		return 0
	}
	return s.count
}

// QuantityChoices returns 1..Orderable().
func (s Stock) QuantityChoices() []int {
	n := s.Orderable()
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// LowStock reports whether a finite count sits below MaxOrderQuantity.
func (s Stock) LowStock() bool {
	return s.limited && s.count < MaxOrderQuantity
}

// LowStockMessage returns the warning shown next to the price, or "".
func (s Stock) LowStockMessage() string {
	if !s.LowStock() {
		return ""
	}
	return fmt.Sprintf("Only %d left", s.count)
}

func (s Stock) String() string {
	if !s.limited {
		return unboundedLabel
	}
	return fmt.Sprintf("%d", s.count)
}

// MarshalJSON writes the count as a number or the string "unbounded".
func (s Stock) MarshalJSON() ([]byte, error) {
	if !s.limited {
		return json.Marshal(unboundedLabel)
	}
	return json.Marshal(s.count)
}

// UnmarshalJSON accepts a number, null or "unbounded".
func (s *Stock) UnmarshalJSON(data []byte) error {
	var n *int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = StockOf(n)
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	if label != unboundedLabel {
		return fmt.Errorf("invalid stock value %q", label)
	}
	*s = UnboundedStock()
	return nil
}

// ValidateQuantity checks q against 1..Orderable().
func (s Stock) ValidateQuantity(q int) error {
	limit := s.Orderable()
	if limit == 0 {
		return ErrOutOfStock
	}
	if q < 1 || q > limit {
		return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidQuantity, q, limit)
	}
	return nil
}
