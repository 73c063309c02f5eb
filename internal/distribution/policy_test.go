package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

func TestComputeThreeCategories(t *testing.T) {
	// R500 into Healthcare, Groceries, Education only. The five missing
	// categories' shares (28%) fold into the emergency amount on top of the
	// base 20%.
	res, err := Compute(50000, []accounts.Type{
		accounts.TypeHealthcare,
		accounts.TypeGroceries,
		accounts.TypeEducation,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), res.Allocations[accounts.TypeHealthcare])
	assert.Equal(t, int64(8000), res.Allocations[accounts.TypeGroceries])
	assert.Equal(t, int64(8000), res.Allocations[accounts.TypeEducation])
	assert.Equal(t, int64(24000), res.Emergency)
	assert.Equal(t, int64(50000), res.Total())
}

func TestComputeAllCategories(t *testing.T) {
	res, err := Compute(100000, accounts.Categories())
	require.NoError(t, err)

	assert.Len(t, res.Allocations, len(accounts.Categories()))
	assert.Equal(t, int64(20000), res.Emergency)
	assert.Equal(t, int64(100000), res.Total())
}

func TestComputeConservation(t *testing.T) {
	// Awkward amounts whose percentage shares do not divide evenly. Every
	// rounding remainder must fold into the emergency amount.
	amounts := []int64{1, 3, 7, 99, 101, 12345, 33333, 999999, 1000001}
	sets := [][]accounts.Type{
		{accounts.TypeHealthcare},
		{accounts.TypeTransport, accounts.TypePregnancy},
		{accounts.TypeEntertainment, accounts.TypeClothing, accounts.TypeBabyCare},
		accounts.Categories(),
	}

	for _, amount := range amounts {
		for _, set := range sets {
			res, err := Compute(amount, set)
			require.NoError(t, err)
			assert.Equal(t, amount, res.Total(), "amount=%d set=%v", amount, set)
			assert.GreaterOrEqual(t, res.Emergency, int64(0))
			for cat, alloc := range res.Allocations {
				assert.GreaterOrEqual(t, alloc, int64(0), "category %s", cat)
			}
		}
	}
}

func TestComputeIgnoresMainAndDuplicates(t *testing.T) {
	res, err := Compute(10000, []accounts.Type{
		accounts.TypeMain,
		accounts.TypeGroceries,
		accounts.TypeGroceries,
	})
	require.NoError(t, err)

	assert.Len(t, res.Allocations, 1)
	assert.Equal(t, int64(1600), res.Allocations[accounts.TypeGroceries])
	assert.Equal(t, int64(10000), res.Total())
}

func TestComputeRejectsNonPositiveAmounts(t *testing.T) {
	_, err := Compute(0, accounts.Categories())
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = Compute(-100, accounts.Categories())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPercentTableSumsToEighty(t *testing.T) {
	var sum int64
	for _, pct := range Percent {
		sum += pct
	}
	// The remaining 20% is the emergency-fund share.
	assert.Equal(t, int64(80), sum)
}
