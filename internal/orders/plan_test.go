package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
	"github.com/Nana-Caring/Backend--sub002/internal/cart"
)

func activeAccount(id string, t accounts.Type, balance int64) accounts.Account {
	return accounts.Account{
		ID:      id,
		Type:    t,
		Balance: balance,
		Status:  "active",
		IsMain:  t == accounts.TypeMain,
	}
}

func item(product string, cat accounts.Type, qty int, unitPrice int64) cart.Item {
	return cart.Item{
		ID:          "cart-" + product,
		ProductID:   product,
		ProductName: product,
		Category:    cat,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Active:      true,
		Stock:       qty,
	}
}

func TestBuildPlanGroupsByCategory(t *testing.T) {
	items := []cart.Item{
		item("bandages", accounts.TypeHealthcare, 2, 2500),
		item("vitamins", accounts.TypeHealthcare, 1, 5000),
		item("bread", accounts.TypeGroceries, 3, 1000),
	}
	accts := []accounts.Account{
		activeAccount("a-main", accounts.TypeMain, 100000),
		activeAccount("a-health", accounts.TypeHealthcare, 20000),
		activeAccount("a-groc", accounts.TypeGroceries, 20000),
	}

	plan, err := BuildPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, plan.Charges, 2)
	assert.Equal(t, accounts.TypeHealthcare, plan.Charges[0].Category)
	assert.Equal(t, int64(10000), plan.Charges[0].Subtotal)
	assert.Equal(t, "a-health", plan.Charges[0].AccountID)
	assert.Equal(t, accounts.TypeGroceries, plan.Charges[1].Category)
	assert.Equal(t, int64(3000), plan.Charges[1].Subtotal)
	assert.Equal(t, int64(13000), plan.Total)
	assert.Empty(t, plan.Unavailable)
}

func TestBuildPlanMainFallback(t *testing.T) {
	items := []cart.Item{
		item("crayons", accounts.TypeEducation, 1, 4000),
	}
	accts := []accounts.Account{
		activeAccount("a-main", accounts.TypeMain, 100000),
	}

	plan, err := BuildPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, plan.Charges, 1)
	assert.Equal(t, "a-main", plan.Charges[0].AccountID)
	assert.Equal(t, accounts.TypeMain, plan.Charges[0].AccountType)
}

func TestBuildPlanPartitionsUnavailable(t *testing.T) {
	inactive := item("discontinued", accounts.TypeClothing, 1, 9000)
	inactive.Active = false
	outOfStock := item("nappies", accounts.TypeBabyCare, 5, 2000)
	outOfStock.Stock = 2

	items := []cart.Item{
		item("bandages", accounts.TypeHealthcare, 1, 5000),
		inactive,
		outOfStock,
	}
	accts := []accounts.Account{
		activeAccount("a-main", accounts.TypeMain, 100000),
	}

	plan, err := BuildPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, plan.Valid, 1)
	require.Len(t, plan.Unavailable, 2)
	assert.Equal(t, "no longer sold", plan.Unavailable[0].Reason)
	assert.Equal(t, "out of stock", plan.Unavailable[1].Reason)
	assert.Equal(t, int64(5000), plan.Total)
}

func TestBuildPlanSortsValidByProductID(t *testing.T) {
	// Valid items drive the product stock updates; two concurrent checkouts
	// sharing products must lock the product rows in the same order.
	items := []cart.Item{
		item("zinc", accounts.TypeHealthcare, 1, 1000),
		item("apples", accounts.TypeGroceries, 1, 2000),
		item("milk", accounts.TypeGroceries, 1, 1500),
	}
	accts := []accounts.Account{activeAccount("a-main", accounts.TypeMain, 100000)}

	plan, err := BuildPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, plan.Valid, 3)
	assert.Equal(t, "apples", plan.Valid[0].ProductID)
	assert.Equal(t, "milk", plan.Valid[1].ProductID)
	assert.Equal(t, "zinc", plan.Valid[2].ProductID)
}

func TestBuildPlanEmptyCart(t *testing.T) {
	_, err := BuildPlan(nil, []accounts.Account{activeAccount("a-main", accounts.TypeMain, 0)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildPlanAllUnavailable(t *testing.T) {
	bad := item("ghost", accounts.TypeGroceries, 1, 1000)
	bad.Active = false

	_, err := BuildPlan([]cart.Item{bad}, []accounts.Account{activeAccount("a-main", accounts.TypeMain, 0)})

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Len(t, unavailable.Items, 1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildPlanNoPayingAccount(t *testing.T) {
	items := []cart.Item{item("bandages", accounts.TypeHealthcare, 1, 5000)}

	_, err := BuildPlan(items, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCheckFundingReportsEveryShortfall(t *testing.T) {
	// Healthcare item R50, Groceries item R30; Healthcare account holds R40.
	// The whole checkout must fail, reporting the R10 healthcare shortfall.
	charges := []CategoryCharge{
		{Category: accounts.TypeHealthcare, Subtotal: 5000, AccountID: "a-health"},
		{Category: accounts.TypeGroceries, Subtotal: 3000, AccountID: "a-groc"},
	}
	balances := map[string]int64{"a-health": 4000, "a-groc": 10000}

	underfunded := CheckFunding(charges, balances)

	require.Len(t, underfunded, 1)
	assert.Equal(t, "healthcare", underfunded[0].Category)
	assert.Equal(t, int64(5000), underfunded[0].Required)
	assert.Equal(t, int64(4000), underfunded[0].Available)
	assert.Equal(t, int64(1000), underfunded[0].Shortfall)
}

func TestCheckFundingNoCrossCategoryBorrowing(t *testing.T) {
	// Both categories fall back to Main. Each check is per category, but the
	// shared account must cover the combined subtotals: the second category
	// only sees what the first left behind.
	charges := []CategoryCharge{
		{Category: accounts.TypeHealthcare, Subtotal: 6000, AccountID: "a-main", AccountType: accounts.TypeMain},
		{Category: accounts.TypeGroceries, Subtotal: 6000, AccountID: "a-main", AccountType: accounts.TypeMain},
	}
	balances := map[string]int64{"a-main": 10000}

	underfunded := CheckFunding(charges, balances)

	require.Len(t, underfunded, 1)
	assert.Equal(t, "groceries", underfunded[0].Category)
	assert.Equal(t, int64(4000), underfunded[0].Available)
	assert.Equal(t, int64(2000), underfunded[0].Shortfall)
}

func TestCheckFundingAllFunded(t *testing.T) {
	charges := []CategoryCharge{
		{Category: accounts.TypeHealthcare, Subtotal: 5000, AccountID: "a-health"},
		{Category: accounts.TypeGroceries, Subtotal: 3000, AccountID: "a-main"},
	}
	balances := map[string]int64{"a-health": 5000, "a-main": 3000}

	assert.Empty(t, CheckFunding(charges, balances))
}

func TestUnderfundedErrorIsBadRequest(t *testing.T) {
	err := &apperr.UnderfundedError{Categories: []apperr.InsufficientFundsError{
		*apperr.NewInsufficientFunds("healthcare", 5000, 4000),
	}}
	assert.Equal(t, 400, apperr.StatusCode(err))
	assert.False(t, errors.Is(err, apperr.ErrNotFound))
}
