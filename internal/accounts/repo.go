package accounts

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

const accountColumns = `id, user_id, account_number, type, balance, currency, status, is_main, last_transaction_at, created_at`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.AccountNumber,
		&a.Type,
		&a.Balance,
		&a.Currency,
		&a.Status,
		&a.IsMain,
		&a.LastTransactionAt,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Account, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1::uuid
		ORDER BY is_main DESC, type
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Account, 0, 9)
	for rows.Next() {
		var a Account
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.AccountNumber,
			&a.Type,
			&a.Balance,
			&a.Currency,
			&a.Status,
			&a.IsMain,
			&a.LastTransactionAt,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetByUserAndType(ctx context.Context, userID string, t Type) (*Account, error) {
	return scanAccount(r.Pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1::uuid AND type = $2
	`, userID, t))
}

func (r *Repository) GetMainByUser(ctx context.Context, userID string) (*Account, error) {
	return scanAccount(r.Pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1::uuid AND is_main = true
	`, userID))
}

func (r *Repository) GetByNumberAndUser(ctx context.Context, accountNumber, userID string) (*Account, error) {
	return scanAccount(r.Pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_number = $1 AND user_id = $2::uuid
	`, accountNumber, userID))
}

// HasGuardianLink reports whether an active funder->beneficiary relationship exists.
func (r *Repository) HasGuardianLink(ctx context.Context, funderID, beneficiaryID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM guardian_links
			WHERE funder_id = $1::uuid AND beneficiary_id = $2::uuid AND status = 'active'
		)
	`, funderID, beneficiaryID).Scan(&exists)
	return exists, err
}

// LockForUpdate acquires row locks on every given account id in ascending id
// order, one at a time, so that concurrent operations touching overlapping
// accounts cannot deadlock. Returns the locked accounts keyed by id with
// balances as of the lock.
func LockForUpdate(ctx context.Context, tx pgx.Tx, ids []string) (map[string]*Account, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	locked := make(map[string]*Account, len(sorted))
	for _, id := range sorted {
		if _, ok := locked[id]; ok {
			continue
		}
		a, err := scanAccount(tx.QueryRow(ctx, `
			SELECT `+accountColumns+`
			FROM accounts
			WHERE id = $1::uuid
			FOR UPDATE
		`, id))
		if err != nil {
			return nil, err
		}
		locked[id] = a
	}
	return locked, nil
}

// Credit adds to a locked account's balance inside the caller's transaction
// and returns the resulting balance.
func Credit(ctx context.Context, tx pgx.Tx, accountID string, amount int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $1, last_transaction_at = NOW()
		WHERE id = $2::uuid
		RETURNING balance
	`, amount, accountID).Scan(&balance)
	return balance, err
}

// Debit subtracts from a locked account's balance inside the caller's
// transaction. The WHERE guard backs up the caller's balance check so a
// balance can never go negative.
func Debit(ctx context.Context, tx pgx.Tx, accountID string, amount int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance - $1, last_transaction_at = NOW()
		WHERE id = $2::uuid AND balance >= $1
		RETURNING balance
	`, amount, accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("debit of %d rejected: %w", amount, apperr.ErrConcurrencyConflict)
	}
	return balance, err
}
