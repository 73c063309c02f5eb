package cart

import (
	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
)

// Item is one cart line joined with its product's current availability. The
// unit price is the price captured when the item was added to the cart, not
// the product's live price.
type Item struct {
	ID          string        `json:"id"`
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Category    accounts.Type `json:"category"`
	Quantity    int           `json:"quantity"`
	UnitPrice   int64         `json:"unit_price"`
	Active      bool          `json:"-"`
	Stock       int           `json:"-"`
}

// Subtotal is quantity times the captured unit price, in cents.
func (i Item) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Available reports whether the product can still be purchased.
func (i Item) Available() bool {
	return i.Active && i.Stock >= i.Quantity
}
