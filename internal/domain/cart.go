package domain

import "time"

// Cart is the shopper's in-progress selection. Carts are immutable
// values: every change produces a new Cart with a bumped Version, and
// holders adopt the latest reference. The key binds the cart to
// server-side state at the commerce backend and never changes after
// creation.
type Cart struct {
	Items     []CartItem `json:"items"`
	Key       string     `json:"key"`
	Total     float64    `json:"total"`
	Timestamp time.Time  `json:"timestamp"`
	Version   int        `json:"version"`
}

// Empty reports whether the cart has no line items.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// CartItem is one line in the cart. LineTotal may be absent on the
// backend's response; an absent value contributes zero to the cart
// total.
type CartItem struct {
	Key       string   `json:"key,omitempty"`
	ProductID int64    `json:"product_id,omitempty"`
	Name      string   `json:"product_name,omitempty"`
	Quantity  int      `json:"quantity,omitempty"`
	LineTotal *float64 `json:"line_total,omitempty"`
}
