package store

import (
	"context"

	"github.com/google/uuid"
)

const productColumns = `id, seller_id, name, price, discount_percent, quantity, image_url, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &p.DiscountPercent, &p.Quantity, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProductsByIDs returns the live products matching the given ids. Ids with
// no matching row are simply absent from the result.
func (q *Queries) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`,
		uuidStrings(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProductByID returns a single product.
func (q *Queries) GetProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// ListProducts returns a page of products, newest first.
func (q *Queries) ListProducts(ctx context.Context, limit, offset int32) ([]Product, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountProducts returns the total number of products.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total)
	return total, err
}

// InsertProductParams collects the attributes of a new catalog row.
type InsertProductParams struct {
	SellerID        uuid.UUID
	Name            string
	Price           int64
	DiscountPercent int32
	Quantity        int32
	ImageURL        *string
}

// InsertProduct creates a catalog row. Used by the seeder.
func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx,
		`INSERT INTO products (seller_id, name, price, discount_percent, quantity, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		arg.SellerID, arg.Name, arg.Price, arg.DiscountPercent, arg.Quantity, arg.ImageURL))
}
