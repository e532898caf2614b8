package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-storefront/internal/catalog"
	"github.com/noah-isme/backend-storefront/internal/store"
)

type fakeCatalogQueries struct {
	products map[uuid.UUID]store.Product
	err      error
	listed   int
}

func (f *fakeCatalogQueries) GetProductsByIDs(_ context.Context, ids []uuid.UUID) ([]store.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogQueries) GetProductByID(_ context.Context, id uuid.UUID) (store.Product, error) {
	if f.err != nil {
		return store.Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return store.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeCatalogQueries) ListProducts(_ context.Context, _, _ int32) ([]store.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listed++
	var out []store.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogQueries) CountProducts(context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.products)), nil
}

func TestSnapshotReportsPerIDAbsence(t *testing.T) {
	known := uuid.New()
	queries := &fakeCatalogQueries{products: map[uuid.UUID]store.Product{
		known: {ID: known, Name: "Lamp", Price: 12_000, DiscountPercent: 25, Quantity: 4},
	}}
	svc := &catalog.Service{Q: queries}

	missing := uuid.New()
	snap, err := svc.Snapshot(context.Background(), []uuid.UUID{known, missing, known})
	require.NoError(t, err)
	require.Len(t, snap, 1)
	require.Contains(t, snap, known)
	require.NotContains(t, snap, missing)
	require.Equal(t, int64(12_000), snap[known].UnitPrice)
	require.Equal(t, int32(25), snap[known].DiscountPercent)
	require.Equal(t, int32(4), snap[known].Available)
}

func TestSnapshotClampsDiscountPercent(t *testing.T) {
	id := uuid.New()
	queries := &fakeCatalogQueries{products: map[uuid.UUID]store.Product{
		id: {ID: id, Price: 1_000, DiscountPercent: 150},
	}}
	svc := &catalog.Service{Q: queries}

	snap, err := svc.Snapshot(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	require.Equal(t, int32(100), snap[id].DiscountPercent)
}

func TestSnapshotWrapsUnavailable(t *testing.T) {
	queries := &fakeCatalogQueries{err: errors.New("dial tcp: connection refused")}
	svc := &catalog.Service{Q: queries}
	_, err := svc.Snapshot(context.Background(), []uuid.UUID{uuid.New()})
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestGetUnknownProduct(t *testing.T) {
	svc := &catalog.Service{Q: &fakeCatalogQueries{products: map[uuid.UUID]store.Product{}}}
	_, err := svc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestListCachesDefaultPage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	id := uuid.New()
	queries := &fakeCatalogQueries{products: map[uuid.UUID]store.Product{
		id: {ID: id, Name: "Mug", Price: 3_500},
	}}
	svc := &catalog.Service{Q: queries, Cache: catalog.NewCache(client, time.Minute), DefaultLimit: 20}

	first, err := svc.List(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	second, err := svc.List(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Equal(t, first.Items, second.Items)
	require.Equal(t, 1, queries.listed, "second default page read must come from cache")
}
