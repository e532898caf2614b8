package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-storefront/internal/pricing"
	"github.com/noah-isme/backend-storefront/internal/store"
)

// ErrUnavailable indicates the catalog store could not be reached. The
// caller may retry.
var ErrUnavailable = errors.New("catalog: unavailable")

// ErrProductNotFound indicates the requested product has no live row.
var ErrProductNotFound = errors.New("catalog: product not found")

type querier interface {
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]store.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (store.Product, error)
	ListProducts(ctx context.Context, limit, offset int32) ([]store.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

// Service reads product attributes for browsing and for pricing. It never
// mutates catalog state.
type Service struct {
	Q            querier
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// Snapshot returns a point-in-time read of the products referenced by a
// cart: id -> {name, unitPrice, discountPercent, availableQuantity,
// imageRef}. Ids without a live product are absent from the map; the caller
// decides how to treat the dangling reference.
func (s *Service) Snapshot(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]pricing.Snapshot, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("catalog service not configured")
	}
	out := make(map[uuid.UUID]pricing.Snapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	products, err := s.Q.GetProductsByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for _, p := range products {
		out[p.ID] = toSnapshot(p)
	}
	return out, nil
}

// ProductView is the public browse payload.
type ProductView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           int64   `json:"price"`
	DiscountPercent int32   `json:"discountPercent"`
	Quantity        int32   `json:"quantity"`
	ImageURL        *string `json:"imageUrl,omitempty"`
}

// ListResult contains a browse page and the total row count.
type ListResult struct {
	Items []ProductView
	Total int64
	Page  int
	Limit int
}

// List returns a page of products for browsing, with the default first page
// served from cache.
func (s *Service) List(ctx context.Context, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.defaultLimit()
	}
	if max := s.maxLimit(); limit > max {
		limit = max
	}

	cacheable := page == 1 && limit == s.defaultLimit()
	const cacheKey = "catalog:products:list:front"
	if cacheable && s.Cache != nil {
		var cached cachedList
		if ok, err := s.Cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
			return ListResult{Items: cached.Items, Total: cached.Total, Page: page, Limit: limit}, nil
		}
	}

	total, err := s.Q.CountProducts(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rows, err := s.Q.ListProducts(ctx, int32(limit), int32((page-1)*limit))
	if err != nil {
		return ListResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	items := make([]ProductView, 0, len(rows))
	for _, p := range rows {
		items = append(items, toView(p))
	}
	if cacheable && s.Cache != nil {
		_ = s.Cache.SetJSON(ctx, cacheKey, cachedList{Items: items, Total: total})
	}
	return ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Get returns one product for the detail page.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (ProductView, error) {
	key := "catalog:products:detail:" + id.String()
	if s.Cache != nil {
		var cached ProductView
		if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	p, err := s.Q.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductView{}, ErrProductNotFound
		}
		return ProductView{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	view := toView(p)
	if s.Cache != nil {
		_ = s.Cache.SetJSON(ctx, key, view)
	}
	return view, nil
}

type cachedList struct {
	Items []ProductView `json:"items"`
	Total int64         `json:"total"`
}

func (s *Service) defaultLimit() int {
	if s.DefaultLimit < 1 {
		return 20
	}
	return s.DefaultLimit
}

func (s *Service) maxLimit() int {
	if s.MaxLimit < 1 {
		return 100
	}
	return s.MaxLimit
}

func toSnapshot(p store.Product) pricing.Snapshot {
	pct := p.DiscountPercent
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pricing.Snapshot{
		Name:            p.Name,
		UnitPrice:       p.Price,
		DiscountPercent: pct,
		Available:       p.Quantity,
		ImageURL:        p.ImageURL,
	}
}

func toView(p store.Product) ProductView {
	return ProductView{
		ID:              p.ID.String(),
		Name:            p.Name,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		Quantity:        p.Quantity,
		ImageURL:        p.ImageURL,
	}
}
