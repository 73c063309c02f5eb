package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
	"github.com/Nana-Caring/Backend--sub002/internal/audit"
	"github.com/Nana-Caring/Backend--sub002/internal/cart"
	"github.com/Nana-Caring/Backend--sub002/internal/events"
	"github.com/Nana-Caring/Backend--sub002/internal/ledger"
)

const scopeTimeout = 10 * time.Second

type Engine struct {
	Pool     *pgxpool.Pool
	Accounts *accounts.Repository
	Cart     *cart.Repository
	Orders   *Repository
	Events   events.Publisher
}

func NewEngine(pool *pgxpool.Pool, accountsRepo *accounts.Repository, cartRepo *cart.Repository, ordersRepo *Repository, publisher events.Publisher) *Engine {
	return &Engine{Pool: pool, Accounts: accountsRepo, Cart: cartRepo, Orders: ordersRepo, Events: publisher}
}

type CheckoutResult struct {
	Order       *Order            `json:"order"`
	Items       []OrderItem       `json:"items"`
	Breakdown   []CategoryCharge  `json:"payment_breakdown"`
	Unavailable []UnavailableItem `json:"unavailable_items,omitempty"`
}

// Checkout settles the user's cart: valid items are grouped by category, each
// category's paying account is verified to cover its own subtotal, and the
// order, item snapshots, debits, ledger entries and cart clear commit in one
// scope. If any category is underfunded nothing is written and every
// shortfall is reported.
func (e *Engine) Checkout(ctx context.Context, userID string, shippingAddress *string) (*CheckoutResult, error) {
	items, err := e.Cart.LoadActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	userAccounts, err := e.Accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := BuildPlan(items, userAccounts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, scopeTimeout)
	defer cancel()

	res, err := e.settle(ctx, userID, plan, shippingAddress)
	if err != nil {
		return nil, apperr.ClassifyPg(err)
	}
	res.Unavailable = plan.Unavailable

	breakdown := make(map[string]int64, len(res.Breakdown))
	for _, ch := range res.Breakdown {
		breakdown[string(ch.Category)] = ch.Subtotal
	}
	events.Emit(context.WithoutCancel(ctx), e.Events, events.OrderPaid, events.OrderPaidEvent{
		OrderID:     res.Order.ID,
		OrderNumber: res.Order.OrderNumber,
		UserID:      userID,
		Total:       res.Order.Total,
		Breakdown:   breakdown,
		OccurredAt:  time.Now(),
	})

	meta, _ := json.Marshal(breakdown)
	if err := audit.Write(context.WithoutCancel(ctx), e.Pool, audit.Entry{
		UserID:     &userID,
		Action:     audit.ActionCheckout,
		EntityType: "order",
		EntityID:   &res.Order.ID,
		Metadata:   meta,
	}); err != nil {
		slog.Error("audit write failed", "action", audit.ActionCheckout, "error", err)
	}

	slog.Info("checkout settled",
		"order", res.Order.OrderNumber,
		"user", userID,
		"total", res.Order.Total,
		"categories", len(res.Breakdown),
		"unavailable", len(res.Unavailable),
	)
	return res, nil
}

func (e *Engine) settle(ctx context.Context, userID string, plan *Plan, shippingAddress *string) (*CheckoutResult, error) {
	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(plan.Charges))
	for _, ch := range plan.Charges {
		ids = append(ids, ch.AccountID)
	}
	locked, err := accounts.LockForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]int64, len(locked))
	for id, a := range locked {
		balances[id] = a.Balance
	}
	if underfunded := CheckFunding(plan.Charges, balances); len(underfunded) > 0 {
		return nil, &apperr.UnderfundedError{Categories: underfunded}
	}

	order, err := insertOrder(ctx, tx, userID, plan.Total, shippingAddress)
	if err != nil {
		return nil, err
	}

	orderItems := make([]OrderItem, 0, len(plan.Valid))
	cartIDs := make([]string, 0, len(plan.Valid))
	for _, it := range plan.Valid {
		orderItems = append(orderItems, OrderItem{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Category:  it.Category,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal(),
		})
		cartIDs = append(cartIDs, it.ID)
		if err := reduceStock(ctx, tx, it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}
	if err := insertItems(ctx, tx, order.ID, orderItems); err != nil {
		return nil, err
	}

	for _, ch := range plan.Charges {
		balance, err := accounts.Debit(ctx, tx, ch.AccountID, ch.Subtotal)
		if err != nil {
			return nil, err
		}
		ref := fmt.Sprintf("ORDER_%s_%s", order.ID, ch.Category.Upper())
		desc := fmt.Sprintf("Order %s (%s)", order.OrderNumber, ch.Category)
		if _, err := ledger.Append(ctx, tx, ch.AccountID, ledger.Debit, ch.Subtotal, desc, ref, balance); err != nil {
			return nil, err
		}
	}

	if err := markPaid(ctx, tx, order.ID); err != nil {
		return nil, err
	}
	if err := cart.ClearPurchased(ctx, tx, cartIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	order.PaymentStatus = PaymentCompleted
	order.PaidAt = &now

	return &CheckoutResult{Order: order, Items: orderItems, Breakdown: plan.Charges}, nil
}
