package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-storefront/internal/cart"
	"github.com/noah-isme/backend-storefront/internal/store"
)

// fakeQueries reproduces the storage contract in memory, including the
// unique (user, product) merge behaviour of the real upsert.
type fakeQueries struct {
	items   map[uuid.UUID]store.CartItem
	failAll error
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{items: map[uuid.UUID]store.CartItem{}}
}

func (f *fakeQueries) UpsertCartItem(_ context.Context, arg store.UpsertCartItemParams) (store.CartItem, error) {
	if f.failAll != nil {
		return store.CartItem{}, f.failAll
	}
	for id, it := range f.items {
		if it.UserID == arg.UserID && it.ProductID == arg.ProductID {
			it.Quantity += arg.Quantity
			f.items[id] = it
			return it, nil
		}
	}
	it := store.CartItem{ID: uuid.New(), UserID: arg.UserID, ProductID: arg.ProductID, Quantity: arg.Quantity}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeQueries) UpdateCartItemQuantity(_ context.Context, id uuid.UUID, quantity int32) (int64, error) {
	if f.failAll != nil {
		return 0, f.failAll
	}
	it, ok := f.items[id]
	if !ok {
		return 0, nil
	}
	it.Quantity = quantity
	f.items[id] = it
	return 1, nil
}

func (f *fakeQueries) DeleteCartItem(_ context.Context, id uuid.UUID) error {
	if f.failAll != nil {
		return f.failAll
	}
	delete(f.items, id)
	return nil
}

func (f *fakeQueries) ListCartItems(_ context.Context, userID uuid.UUID) ([]store.CartItem, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	var out []store.CartItem
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func TestAddOrMergeMergesQuantities(t *testing.T) {
	q := newFakeQueries()
	svc := &cart.Service{Q: q}
	userID := uuid.New()
	productID := uuid.New()

	first, err := svc.AddOrMerge(context.Background(), userID, productID, 2)
	require.NoError(t, err)
	second, err := svc.AddOrMerge(context.Background(), userID, productID, 3)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "same (user, product) must stay one line")
	require.Equal(t, int32(5), second.Quantity)

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestAddOrMergeRejectsZeroQuantity(t *testing.T) {
	svc := &cart.Service{Q: newFakeQueries()}
	_, err := svc.AddOrMerge(context.Background(), uuid.New(), uuid.New(), 0)
	require.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestAddOrMergeMapsMissingProduct(t *testing.T) {
	q := newFakeQueries()
	q.failAll = &pgconn.PgError{Code: "23503"}
	svc := &cart.Service{Q: q}
	_, err := svc.AddOrMerge(context.Background(), uuid.New(), uuid.New(), 1)
	require.ErrorIs(t, err, cart.ErrProductNotFound)
}

func TestSetQuantityRejectsBelowOne(t *testing.T) {
	q := newFakeQueries()
	svc := &cart.Service{Q: q}
	userID := uuid.New()
	item, err := svc.AddOrMerge(context.Background(), userID, uuid.New(), 4)
	require.NoError(t, err)

	err = svc.SetQuantity(context.Background(), item.ID, 0)
	require.ErrorIs(t, err, cart.ErrInvalidQuantity)
	require.Equal(t, int32(4), q.items[item.ID].Quantity, "failed call must leave quantity unchanged")

	require.NoError(t, svc.SetQuantity(context.Background(), item.ID, 7))
	require.Equal(t, int32(7), q.items[item.ID].Quantity)
}

func TestSetQuantityUnknownLine(t *testing.T) {
	svc := &cart.Service{Q: newFakeQueries()}
	err := svc.SetQuantity(context.Background(), uuid.New(), 2)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	q := newFakeQueries()
	svc := &cart.Service{Q: q}
	item, err := svc.AddOrMerge(context.Background(), uuid.New(), uuid.New(), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), item.ID))
	require.NoError(t, svc.Remove(context.Background(), item.ID), "removing an absent line is not an error")
}

func TestStoreFailureSurfacesAsStoreError(t *testing.T) {
	q := newFakeQueries()
	q.failAll = errors.New("connection refused")
	svc := &cart.Service{Q: q}

	_, err := svc.AddOrMerge(context.Background(), uuid.New(), uuid.New(), 1)
	var storeErr *cart.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.ErrorContains(t, storeErr, "connection refused")
}
