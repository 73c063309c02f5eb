package orders

import (
	"fmt"
	"sort"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
	"github.com/Nana-Caring/Backend--sub002/internal/cart"
)

// UnavailableItem reports a cart line that cannot be purchased right now.
// Unavailable items never block the rest of the cart.
type UnavailableItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
}

// UnavailableError is returned when nothing in the cart can be purchased.
type UnavailableError struct {
	Items []UnavailableItem
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("no purchasable items in cart (%d unavailable)", len(e.Items))
}

func (e *UnavailableError) Unwrap() error { return apperr.ErrValidation }

// CategoryCharge is one category's planned debit: the subtotal of its valid
// items and the account that pays it (dedicated category account, else Main).
type CategoryCharge struct {
	Category    accounts.Type `json:"category"`
	Subtotal    int64         `json:"subtotal"`
	AccountID   string        `json:"-"`
	AccountType accounts.Type `json:"paid_from"`
}

// Plan is the DB-free shape of a checkout: what is purchasable, what each
// category costs, and which account pays it. Funding is verified later under
// row locks.
type Plan struct {
	Valid       []cart.Item
	Unavailable []UnavailableItem
	Charges     []CategoryCharge
	Total       int64
}

// BuildPlan partitions the cart, groups valid items by category and resolves
// each category's paying account. Charges come out in the fixed category
// order so lock acquisition and references are deterministic.
func BuildPlan(items []cart.Item, userAccounts []accounts.Account) (*Plan, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", apperr.ErrValidation)
	}

	plan := &Plan{}
	subtotals := make(map[accounts.Type]int64)
	for _, it := range items {
		if !it.Available() {
			reason := "out of stock"
			if !it.Active {
				reason = "no longer sold"
			}
			plan.Unavailable = append(plan.Unavailable, UnavailableItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				Reason:      reason,
			})
			continue
		}
		plan.Valid = append(plan.Valid, it)
		subtotals[it.Category] += it.Subtotal()
	}

	if len(plan.Valid) == 0 {
		return nil, &UnavailableError{Items: plan.Unavailable}
	}

	// Stock updates follow this slice; sorting by product id keeps product
	// row locks in the same order across concurrent checkouts.
	sort.Slice(plan.Valid, func(i, j int) bool {
		return plan.Valid[i].ProductID < plan.Valid[j].ProductID
	})

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

	for _, cat := range accounts.Categories() {
		subtotal, ok := subtotals[cat]
		if !ok {
			continue
		}
		charge := CategoryCharge{Category: cat, Subtotal: subtotal}
		if acct, ok := byType[cat]; ok {
			charge.AccountID = acct.ID
			charge.AccountType = acct.Type
		} else if main != nil {
			charge.AccountID = main.ID
			charge.AccountType = accounts.TypeMain
		} else {
			return nil, fmt.Errorf("no account can pay for %s: %w", cat, apperr.ErrNotFound)
		}
		plan.Charges = append(plan.Charges, charge)
		plan.Total += subtotal
	}

	return plan, nil
}

// CheckFunding verifies every charge against the locked balances. A category
// never borrows from another, and when one account (typically Main) backs
// several categories it must cover their combined subtotals. Returns one
// entry per underfunded category.
func CheckFunding(charges []CategoryCharge, balances map[string]int64) []apperr.InsufficientFundsError {
	committed := make(map[string]int64, len(balances))
	var underfunded []apperr.InsufficientFundsError

	for _, ch := range charges {
		available := balances[ch.AccountID] - committed[ch.AccountID]
		if available < ch.Subtotal {
			underfunded = append(underfunded, *apperr.NewInsufficientFunds(string(ch.Category), ch.Subtotal, available))
			continue
		}
		committed[ch.AccountID] += ch.Subtotal
	}

	return underfunded
}
