package apperr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes that mean "retry the whole operation".
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// ClassifyPg converts lock/serialization failures and scope timeouts into a
// retryable ConcurrencyConflict. Anything else passes through unchanged.
func ClassifyPg(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("operation timed out: %w", ErrConcurrencyConflict)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%s: %w", pgErr.Message, ErrConcurrencyConflict)
		}
	}

	return err
}
