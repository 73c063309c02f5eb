package events

import "time"

// Routing keys for the platform exchange. Consumers (notification delivery,
// admin dashboards) bind to these; publishing always happens after the
// database scope has committed, never while row locks are held.
const (
	TransferCompleted = "transfer.completed"
	OrderPaid         = "order.paid"
	OrderCancelled    = "order.cancelled"
)

type TransferCompletedEvent struct {
	Reference     string           `json:"reference"`
	FunderID      string           `json:"funder_id"`
	BeneficiaryID string           `json:"beneficiary_id"`
	Amount        int64            `json:"amount"`
	Distribution  map[string]int64 `json:"distribution,omitempty"`
	Emergency     int64            `json:"emergency,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

type OrderPaidEvent struct {
	OrderID     string           `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	UserID      string           `json:"user_id"`
	Total       int64            `json:"total"`
	Breakdown   map[string]int64 `json:"breakdown"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

type OrderCancelledEvent struct {
	OrderID    string           `json:"order_id"`
	UserID     string           `json:"user_id"`
	Refunded   map[string]int64 `json:"refunded,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
