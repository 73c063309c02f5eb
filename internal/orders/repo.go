package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

const orderColumns = `id, order_number, store_code, user_id, total, payment_status, status, shipping_address, paid_at, cancelled_at, created_at`

const uniqueViolation = "23505"

// Store-code collisions are retried with a fresh code inside the same scope.
const storeCodeAttempts = 5

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.StoreCode,
		&o.UserID,
		&o.Total,
		&o.PaymentStatus,
		&o.Status,
		&o.ShippingAddress,
		&o.PaidAt,
		&o.CancelledAt,
		&o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) GetByIDAndUser(ctx context.Context, orderID, userID string) (*Order, error) {
	return scanOrder(r.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1::uuid AND user_id = $2::uuid
	`, orderID, userID))
}

func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.StoreCode, &o.UserID, &o.Total, &o.PaymentStatus, &o.Status, &o.ShippingAddress, &o.PaidAt, &o.CancelledAt, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) ItemsByOrder(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, order_id, product_id, name, category, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = $1::uuid
		ORDER BY category, name
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Category, &it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// retryableInsertConflict reports whether an order insert failed only because
// a randomly generated identifier collided: the store code or, for two
// checkouts in the same millisecond, the order number.
func retryableInsertConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return pgErr.ConstraintName == "orders_store_code_key" ||
		pgErr.ConstraintName == "orders_order_number_key"
}

// insertOrder creates the pending order inside the checkout scope, retrying
// with fresh identifiers when a unique index reports a collision. Each
// attempt runs in a savepoint: a unique violation would otherwise abort the
// surrounding transaction.
func insertOrder(ctx context.Context, tx pgx.Tx, userID string, total int64, shippingAddress *string) (*Order, error) {
	for attempt := 0; attempt < storeCodeAttempts; attempt++ {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, err
		}

		orderNumber := NewOrderNumber(time.Now())
		code := GenerateStoreCode()
		o, err := scanOrder(sp.QueryRow(ctx, `
			INSERT INTO orders (order_number, store_code, user_id, total, payment_status, status, shipping_address)
			VALUES ($1, $2, $3::uuid, $4, $5, $6, $7)
			RETURNING `+orderColumns+`
		`, orderNumber, code, userID, total, PaymentPending, StatusProcessing, shippingAddress))
		if err == nil {
			if err := sp.Commit(ctx); err != nil {
				return nil, err
			}
			return o, nil
		}

		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return nil, rbErr
		}

		if retryableInsertConflict(err) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("could not allocate a unique order identifier: %w", apperr.ErrConflict)
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []OrderItem) error {
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, name, category, unit_price, quantity, subtotal)
			VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
		`, orderID, it.ProductID, it.Name, it.Category, it.UnitPrice, it.Quantity, it.Subtotal); err != nil {
			return err
		}
	}
	return nil
}

func markPaid(ctx context.Context, tx pgx.Tx, orderID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders SET payment_status = $1, paid_at = NOW() WHERE id = $2::uuid
	`, PaymentCompleted, orderID)
	return err
}

func markCancelled(ctx context.Context, tx pgx.Tx, orderID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders SET status = $1, cancelled_at = NOW() WHERE id = $2::uuid
	`, StatusCancelled, orderID)
	return err
}

// itemsForUpdate reloads the order's item snapshots inside the refund scope.
func itemsForUpdate(ctx context.Context, tx pgx.Tx, orderID string) ([]OrderItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, order_id, product_id, name, category, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = $1::uuid
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Category, &it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// lockOrder re-reads the order row under a lock so two concurrent cancels
// cannot both refund it.
func lockOrder(ctx context.Context, tx pgx.Tx, orderID, userID string) (*Order, error) {
	return scanOrder(tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1::uuid AND user_id = $2::uuid
		FOR UPDATE
	`, orderID, userID))
}

// reduceStock decrements product stock for the purchased quantities.
func reduceStock(ctx context.Context, tx pgx.Tx, productID string, quantity int) error {
	ct, err := tx.Exec(ctx, `
		UPDATE products SET stock = stock - $1 WHERE id = $2::uuid AND stock >= $1
	`, quantity, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("product %s went out of stock: %w", productID, apperr.ErrConcurrencyConflict)
	}
	return nil
}
