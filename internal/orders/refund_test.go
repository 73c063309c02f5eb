package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

func snapshot(product string, cat accounts.Type, qty int, unitPrice int64) OrderItem {
	return OrderItem{
		OrderID:   "order-1",
		ProductID: product,
		Name:      product,
		Category:  cat,
		UnitPrice: unitPrice,
		Quantity:  qty,
		Subtotal:  unitPrice * int64(qty),
	}
}

func TestBuildRefundPlanSnapshotExact(t *testing.T) {
	// A completed R120 healthcare order refunds exactly one R120 credit into
	// the healthcare account, taken from the item snapshots.
	items := []OrderItem{snapshot("bandages", accounts.TypeHealthcare, 2, 6000)}
	accts := []accounts.Account{
		activeAccount("a-main", accounts.TypeMain, 0),
		activeAccount("a-health", accounts.TypeHealthcare, 0),
	}

	credits, err := BuildRefundPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, credits, 1)
	assert.Equal(t, accounts.TypeHealthcare, credits[0].Category)
	assert.Equal(t, "a-health", credits[0].AccountID)
	assert.Equal(t, int64(12000), credits[0].Amount)
}

func TestBuildRefundPlanIgnoresCurrentPrices(t *testing.T) {
	// Snapshots carry the price paid; a later price change must not alter the
	// refund, so the amounts are the stored subtotals and nothing else.
	items := []OrderItem{
		snapshot("nappies", accounts.TypeBabyCare, 3, 2000),
		snapshot("wipes", accounts.TypeBabyCare, 1, 1500),
	}
	accts := []accounts.Account{
		activeAccount("a-main", accounts.TypeMain, 0),
		activeAccount("a-baby", accounts.TypeBabyCare, 0),
	}

	credits, err := BuildRefundPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, credits, 1)
	assert.Equal(t, int64(7500), credits[0].Amount)
}

func TestBuildRefundPlanMainFallback(t *testing.T) {
	// No dedicated education account at refund time: the credit lands in Main.
	items := []OrderItem{snapshot("crayons", accounts.TypeEducation, 1, 4000)}
	accts := []accounts.Account{
		activeAccount("a-main", accounts.TypeMain, 0),
	}

	credits, err := BuildRefundPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, credits, 1)
	assert.Equal(t, accounts.TypeEducation, credits[0].Category)
	assert.Equal(t, "a-main", credits[0].AccountID)
	assert.Equal(t, int64(4000), credits[0].Amount)
}

func TestBuildRefundPlanInactiveCategoryFallsBackToMain(t *testing.T) {
	items := []OrderItem{snapshot("bandages", accounts.TypeHealthcare, 1, 5000)}
	frozen := activeAccount("a-health", accounts.TypeHealthcare, 0)
	frozen.Status = "frozen"
	accts := []accounts.Account{
		activeAccount("a-main", accounts.TypeMain, 0),
		frozen,
	}

	credits, err := BuildRefundPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, credits, 1)
	assert.Equal(t, "a-main", credits[0].AccountID)
}

func TestBuildRefundPlanCategoryOrder(t *testing.T) {
	// Credits come out in the fixed category order regardless of item order,
	// so lock acquisition and references are deterministic.
	items := []OrderItem{
		snapshot("bus-pass", accounts.TypeTransport, 1, 3000),
		snapshot("bandages", accounts.TypeHealthcare, 1, 5000),
		snapshot("bread", accounts.TypeGroceries, 2, 1000),
	}
	accts := []accounts.Account{activeAccount("a-main", accounts.TypeMain, 0)}

	credits, err := BuildRefundPlan(items, accts)
	require.NoError(t, err)

	require.Len(t, credits, 3)
	assert.Equal(t, accounts.TypeHealthcare, credits[0].Category)
	assert.Equal(t, accounts.TypeGroceries, credits[1].Category)
	assert.Equal(t, accounts.TypeTransport, credits[2].Category)

	var total int64
	for _, cr := range credits {
		total += cr.Amount
	}
	assert.Equal(t, int64(10000), total)
}

func TestBuildRefundPlanNoReceivingAccount(t *testing.T) {
	items := []OrderItem{snapshot("bandages", accounts.TypeHealthcare, 1, 5000)}

	_, err := BuildRefundPlan(items, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
