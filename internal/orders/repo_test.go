package orders

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRetryableInsertConflict(t *testing.T) {
	t.Run("store code collision retries", func(t *testing.T) {
		err := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "orders_store_code_key"}
		assert.True(t, retryableInsertConflict(err))
	})

	t.Run("order number collision retries", func(t *testing.T) {
		err := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "orders_order_number_key"}
		assert.True(t, retryableInsertConflict(err))
	})

	t.Run("other unique violations surface", func(t *testing.T) {
		err := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "order_items_pkey"}
		assert.False(t, retryableInsertConflict(err))
	})

	t.Run("non-postgres errors surface", func(t *testing.T) {
		assert.False(t, retryableInsertConflict(errors.New("connection reset")))
		assert.False(t, retryableInsertConflict(nil))
	})
}
