package store

import (
	"context"

	"github.com/google/uuid"
)

const cartItemColumns = `id, user_id, product_id, quantity, created_at, updated_at`

func scanCartItem(row interface{ Scan(dest ...any) error }) (CartItem, error) {
	var it CartItem
	err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// UpsertCartItemParams identifies the (user, product) pair and the quantity
// to add.
type UpsertCartItemParams struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
}

// UpsertCartItem inserts a cart line or, when the (user_id, product_id)
// unique constraint fires, increments the existing line's quantity. The
// constraint is what makes concurrent duplicate adds converge to one merged
// line instead of racing into duplicates.
func (q *Queries) UpsertCartItem(ctx context.Context, arg UpsertCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
		 RETURNING `+cartItemColumns,
		arg.UserID, arg.ProductID, arg.Quantity))
}

// UpdateCartItemQuantity replaces a line's quantity, reporting how many rows
// matched.
func (q *Queries) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int32) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteCartItem removes a line. Deleting an absent line is not an error.
func (q *Queries) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	return err
}

// ListCartItems returns every line belonging to the user. Order is not part
// of the contract.
func (q *Queries) ListCartItems(ctx context.Context, userID uuid.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ClearCart removes every line belonging to the user.
func (q *Queries) ClearCart(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
