package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

func TestParseType(t *testing.T) {
	t.Run("accepts main and every category", func(t *testing.T) {
		got, err := ParseType("Main")
		require.NoError(t, err)
		assert.Equal(t, TypeMain, got)

		for _, c := range Categories() {
			got, err := ParseType(string(c))
			require.NoError(t, err)
			assert.Equal(t, c, got)
		}
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		_, err := ParseType("savings")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestTypeUpper(t *testing.T) {
	assert.Equal(t, "HEALTHCARE", TypeHealthcare.Upper())
	assert.Equal(t, "BABY_CARE", TypeBabyCare.Upper())
}
