package orders

import (
	"time"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"

	StatusProcessing = "processing"
	StatusCancelled  = "cancelled"
	StatusFulfilled  = "fulfilled"
)

type Order struct {
	ID              string     `json:"id"`
	OrderNumber     string     `json:"order_number"`
	StoreCode       string     `json:"store_code"`
	UserID          string     `json:"user_id"`
	Total           int64      `json:"total"`
	PaymentStatus   string     `json:"payment_status"`
	Status          string     `json:"status"`
	ShippingAddress *string    `json:"shipping_address,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// OrderItem carries an immutable snapshot of the product as it was at
// checkout. Later catalog edits never affect a settled order or its refund.
type OrderItem struct {
	ID        string        `json:"id"`
	OrderID   string        `json:"order_id"`
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Category  accounts.Type `json:"category"`
	UnitPrice int64         `json:"unit_price"`
	Quantity  int           `json:"quantity"`
	Subtotal  int64         `json:"subtotal"`
}
