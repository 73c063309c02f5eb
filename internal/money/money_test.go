package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandsToCents(t *testing.T) {
	t.Run("whole and fractional rands", func(t *testing.T) {
		cents, err := RandsToCents(12.34)
		require.NoError(t, err)
		assert.Equal(t, int64(1234), cents)

		cents, err = RandsToCents(500)
		require.NoError(t, err)
		assert.Equal(t, int64(50000), cents)
	})

	t.Run("rounds to the nearest cent", func(t *testing.T) {
		cents, err := RandsToCents(0.005)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cents)
	})

	t.Run("rejects negatives and non-finite values", func(t *testing.T) {
		_, err := RandsToCents(-1)
		assert.ErrorIs(t, err, ErrInvalidMoney)

		_, err = RandsToCents(math.NaN())
		assert.ErrorIs(t, err, ErrInvalidMoney)

		_, err = RandsToCents(math.Inf(1))
		assert.ErrorIs(t, err, ErrInvalidMoney)
	})
}

func TestCentsToRandString(t *testing.T) {
	assert.Equal(t, "123.45", CentsToRandString(12345))
	assert.Equal(t, "0.05", CentsToRandString(5))
	assert.Equal(t, "-10.00", CentsToRandString(-1000))
}

func TestCentsToRandStringGroupsThousands(t *testing.T) {
	assert.Equal(t, "1 000.00", CentsToRandString(100000))
	assert.Equal(t, "12 345.67", CentsToRandString(1234567))
	assert.Equal(t, "1 234 567.89", CentsToRandString(123456789))
	assert.Equal(t, "-1 234 567.00", CentsToRandString(-123456700))
}
