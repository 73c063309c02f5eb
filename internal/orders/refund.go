package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
	"github.com/Nana-Caring/Backend--sub002/internal/audit"
	"github.com/Nana-Caring/Backend--sub002/internal/events"
	"github.com/Nana-Caring/Backend--sub002/internal/ledger"
)

type RefundResult struct {
	Refunded bool             `json:"refunded"`
	Credits  map[string]int64 `json:"credits,omitempty"`
}

// RefundCredit is one category's refund: the sum of the order's item
// snapshot subtotals for that category and the account it is credited to.
type RefundCredit struct {
	Category  accounts.Type
	AccountID string
	Amount    int64
}

// BuildRefundPlan regroups the order's item snapshots by category and
// resolves the account each refund lands in: the dedicated category account
// if one is active now, else Main. Amounts come from the snapshots, so price
// changes after checkout never alter the refund. Credits come out in the
// fixed category order.
func BuildRefundPlan(items []OrderItem, userAccounts []accounts.Account) ([]RefundCredit, error) {
	subtotals := make(map[accounts.Type]int64)
	for _, it := range items {
		subtotals[it.Category] += it.Subtotal
	}

	var main *accounts.Account
	byType := make(map[accounts.Type]*accounts.Account, len(userAccounts))
	for i := range userAccounts {
		a := &userAccounts[i]
		if a.Status != "active" {
			continue
		}
		if a.IsMain {
			main = a
		} else {
			byType[a.Type] = a
		}
	}

	var credits []RefundCredit
	for _, cat := range accounts.Categories() {
		amount, ok := subtotals[cat]
		if !ok {
			continue
		}
		var accountID string
		if acct, ok := byType[cat]; ok {
			accountID = acct.ID
		} else if main != nil {
			accountID = main.ID
		} else {
			return nil, fmt.Errorf("no account can receive the %s refund: %w", cat, apperr.ErrNotFound)
		}
		credits = append(credits, RefundCredit{Category: cat, AccountID: accountID, Amount: amount})
	}
	return credits, nil
}

// CancelOrder cancels a processing order. If payment had completed, each
// category is credited back exactly the snapshot subtotal debited at
// checkout, regardless of later product price changes. All credits and the
// status change commit together.
func (e *Engine) CancelOrder(ctx context.Context, orderID, userID string) (*RefundResult, error) {
	// Resolve paying accounts at refund time: the dedicated category account
	// if one exists now, else Main.
	userAccounts, err := e.Accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, scopeTimeout)
	defer cancel()

	res, err := e.cancel(ctx, orderID, userID, userAccounts)
	if err != nil {
		return nil, apperr.ClassifyPg(err)
	}

	events.Emit(context.WithoutCancel(ctx), e.Events, events.OrderCancelled, events.OrderCancelledEvent{
		OrderID:    orderID,
		UserID:     userID,
		Refunded:   res.Credits,
		OccurredAt: time.Now(),
	})

	meta, _ := json.Marshal(res)
	if err := audit.Write(context.WithoutCancel(ctx), e.Pool, audit.Entry{
		UserID:     &userID,
		Action:     audit.ActionCancelOrder,
		EntityType: "order",
		EntityID:   &orderID,
		Metadata:   meta,
	}); err != nil {
		slog.Error("audit write failed", "action", audit.ActionCancelOrder, "error", err)
	}

	slog.Info("order cancelled", "order", orderID, "user", userID, "refunded", res.Refunded)
	return res, nil
}

func (e *Engine) cancel(ctx context.Context, orderID, userID string, userAccounts []accounts.Account) (*RefundResult, error) {
	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := lockOrder(ctx, tx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusProcessing {
		return nil, fmt.Errorf("order is %s and can no longer be cancelled: %w", order.Status, apperr.ErrValidation)
	}

	res := &RefundResult{}
	if order.PaymentStatus == PaymentCompleted {
		items, err := itemsForUpdate(ctx, tx, order.ID)
		if err != nil {
			return nil, err
		}

		credits, err := BuildRefundPlan(items, userAccounts)
		if err != nil {
			return nil, err
		}

		ids := make([]string, 0, len(credits))
		for _, cr := range credits {
			ids = append(ids, cr.AccountID)
		}
		if _, err := accounts.LockForUpdate(ctx, tx, ids); err != nil {
			return nil, err
		}

		res.Credits = make(map[string]int64, len(credits))
		for _, cr := range credits {
			balance, err := accounts.Credit(ctx, tx, cr.AccountID, cr.Amount)
			if err != nil {
				return nil, err
			}
			ref := fmt.Sprintf("REFUND_%s_%s", order.ID, cr.Category.Upper())
			desc := fmt.Sprintf("Refund for order %s (%s)", order.OrderNumber, cr.Category)
			if _, err := ledger.Append(ctx, tx, cr.AccountID, ledger.Credit, cr.Amount, desc, ref, balance); err != nil {
				return nil, err
			}
			res.Credits[string(cr.Category)] = cr.Amount
		}
		res.Refunded = true
	}

	if err := markCancelled(ctx, tx, order.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}
