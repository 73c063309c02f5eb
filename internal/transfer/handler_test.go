package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nana-Caring/Backend--sub002/internal/money"
)

func TestResolveAmount(t *testing.T) {
	t.Run("cents take precedence", func(t *testing.T) {
		amount, err := resolveAmount(12050, 999)
		require.NoError(t, err)
		assert.Equal(t, int64(12050), amount)
	})

	t.Run("decimal rands convert to cents", func(t *testing.T) {
		amount, err := resolveAmount(0, 120.50)
		require.NoError(t, err)
		assert.Equal(t, int64(12050), amount)
	})

	t.Run("nothing positive is rejected", func(t *testing.T) {
		_, err := resolveAmount(0, 0)
		assert.ErrorIs(t, err, money.ErrInvalidMoney)

		_, err = resolveAmount(-100, 0)
		assert.ErrorIs(t, err, money.ErrInvalidMoney)

		_, err = resolveAmount(0, -5)
		assert.ErrorIs(t, err, money.ErrInvalidMoney)
	})
}
