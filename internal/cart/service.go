package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/noah-isme/backend-storefront/internal/store"
)

// ErrInvalidQuantity is returned when a quantity below one is requested. A
// line is removed with Remove, never by driving its quantity to zero.
var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

// ErrNotFound indicates the addressed cart line does not exist.
var ErrNotFound = errors.New("cart: line not found")

// ErrProductNotFound indicates the referenced product has no live catalog row.
var ErrProductNotFound = errors.New("cart: product not found")

// StoreError wraps a storage-layer failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cart store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

const fkViolation = "23503"

type querier interface {
	UpsertCartItem(ctx context.Context, arg store.UpsertCartItemParams) (store.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int32) (int64, error)
	DeleteCartItem(ctx context.Context, id uuid.UUID) error
	ListCartItems(ctx context.Context, userID uuid.UUID) ([]store.CartItem, error)
}

// Service implements the cart store operations. Every call is a single
// statement against Postgres, so each either fully succeeds or has no effect.
type Service struct {
	Q querier
}

// AddOrMerge inserts a line for (user, product) or increments the existing
// one. Safe to retry: the unique (user_id, product_id) constraint merges
// concurrent duplicate adds into a single line.
func (s *Service) AddOrMerge(ctx context.Context, userID, productID uuid.UUID, qty int32) (store.CartItem, error) {
	if s == nil || s.Q == nil {
		return store.CartItem{}, errors.New("cart service not configured")
	}
	if qty < 1 {
		return store.CartItem{}, ErrInvalidQuantity
	}
	item, err := s.Q.UpsertCartItem(ctx, store.UpsertCartItemParams{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return store.CartItem{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return store.CartItem{}, &StoreError{Op: "add", Err: err}
	}
	return item, nil
}

// SetQuantity replaces (not adds to) the line's quantity. Quantities below
// one are rejected and the stored row is left untouched.
func (s *Service) SetQuantity(ctx context.Context, lineID uuid.UUID, qty int32) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	affected, err := s.Q.UpdateCartItemQuantity(ctx, lineID, qty)
	if err != nil {
		return &StoreError{Op: "set quantity", Err: err}
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes a line. Removing an already-absent line is not an error.
func (s *Service) Remove(ctx context.Context, lineID uuid.UUID) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if err := s.Q.DeleteCartItem(ctx, lineID); err != nil {
		return &StoreError{Op: "remove", Err: err}
	}
	return nil
}

// List returns the user's cart lines in no guaranteed order.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]store.CartItem, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("cart service not configured")
	}
	items, err := s.Q.ListCartItems(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return items, nil
}
