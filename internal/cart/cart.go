// Package cart owns the in-memory representation of shopper carts.
// Carts are copy-on-write values: Reconcile and Initialize return new
// Carts and never touch the ones callers already hold.
package cart

import (
	"sort"

	"storefront-bff/internal/domain"
)

// Reconcile produces a new Cart whose items are the values of the
// server's keyed response and whose total is recomputed from them. An
// absent line total contributes zero. The input cart is not mutated;
// the caller adopts the returned value.
func Reconcile(cart domain.Cart, serverItems map[string]domain.CartItem) domain.Cart {
	keys := make([]string, 0, len(serverItems))
	for k := range serverItems {
		keys = append(keys, k)
	}
	// Server ordering carries no meaning; sort for stable display.
	sort.Strings(keys)

	next := cart
	next.Items = make([]domain.CartItem, 0, len(serverItems))
	var total float64
	for _, k := range keys {
		item := serverItems[k]
		if item.Key == "" {
			item.Key = k
		}
		next.Items = append(next.Items, item)
		if item.LineTotal != nil {
			total += *item.LineTotal
		}
	}
	next.Total = total
	next.Version = cart.Version + 1
	return next
}
