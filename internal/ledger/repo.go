package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

const uniqueViolation = "23505"

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

// Append writes one ledger entry inside the caller's transaction scope. It is
// never called outside a scope that also updates the account balance, so the
// entry and the balance commit or roll back together. A reused reference is
// rejected with a conflict (idempotency guard).
func Append(ctx context.Context, tx pgx.Tx, accountID string, entryType EntryType, amount int64, description, reference string, resultingBalance int64) (*Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("ledger amount must be positive: %w", apperr.ErrValidation)
	}

	var t Transaction
	err := tx.QueryRow(ctx, `
		INSERT INTO transactions (account_id, type, amount, description, reference, resulting_balance)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
		RETURNING id, account_id, type, amount, description, reference, resulting_balance, created_at
	`, accountID, entryType, amount, description, reference, resultingBalance).Scan(
		&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Description, &t.Reference, &t.ResultingBalance, &t.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("reference %q already used: %w", reference, apperr.ErrConflict)
		}
		return nil, err
	}
	return &t, nil
}

// History fetches the most recent entries for one account.
func (r *Repository) History(ctx context.Context, accountID string, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT id, account_id, type, amount, description, reference, resulting_balance, created_at
		FROM transactions
		WHERE account_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0, limit)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Description, &t.Reference, &t.ResultingBalance, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// HistoryForUser fetches entries across all of a user's accounts in a date
// range, oldest first. Used by the statement report.
func (r *Repository) HistoryForUser(ctx context.Context, userID, from, to string) ([]Transaction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT t.id, t.account_id, t.type, t.amount, t.description, t.reference, t.resulting_balance, t.created_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1::uuid
		  AND t.created_at >= $2::date
		  AND t.created_at < $3::date + INTERVAL '1 day'
		ORDER BY t.created_at ASC
		LIMIT 2000
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Description, &t.Reference, &t.ResultingBalance, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
