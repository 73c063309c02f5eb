package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

// LoadActive fetches the user's cart lines joined with the product's current
// name, category, active flag and stock.
func (r *Repository) LoadActive(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.category, ci.quantity, ci.price_at_add, p.active, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1::uuid
		ORDER BY ci.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Category, &it.Quantity, &it.UnitPrice, &it.Active, &it.Stock); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddItem puts a product in the cart, capturing its current price. Adding
// the same product again replaces the quantity but keeps the captured price.
func (r *Repository) AddItem(ctx context.Context, userID, productID string, quantity int) (*Item, error) {
	var it Item
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity, price_at_add)
		SELECT $1::uuid, p.id, $3, p.price
		FROM products p
		WHERE p.id = $2::uuid AND p.active = true
		ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING id, product_id, quantity, price_at_add
	`, userID, productID, quantity).Scan(&it.ID, &it.ProductID, &it.Quantity, &it.UnitPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// RemoveItem deletes one cart line belonging to the user.
func (r *Repository) RemoveItem(ctx context.Context, userID, itemID string) error {
	ct, err := r.Pool.Exec(ctx, `
		DELETE FROM cart_items WHERE id = $1::uuid AND user_id = $2::uuid
	`, itemID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("cart item: %w", apperr.ErrNotFound)
	}
	return nil
}

// ClearPurchased removes the bought lines inside the checkout scope so the
// cart clear commits together with the order and the debits.
func ClearPurchased(ctx context.Context, tx pgx.Tx, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = ANY($1::uuid[])`, itemIDs)
	return err
}
