package store

import (
	"context"

	"github.com/google/uuid"
)

const orderColumns = `id, user_id, reference, email, first_name, last_name, address, city, country, phone,
	shipping_method, promo_code, subtotal, discount, shipping_cost, cod_surcharge, total, created_at`

// InsertOrderParams carries the finalized order fields.
type InsertOrderParams struct {
	UserID         uuid.UUID
	Reference      string
	Email          string
	FirstName      string
	LastName       string
	Address        string
	City           string
	Country        string
	Phone          string
	ShippingMethod string
	PromoCode      *string
	Subtotal       int64
	Discount       int64
	ShippingCost   int64
	CODSurcharge   int64
	Total          int64
}

// InsertOrder persists a placed order in a single statement.
func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, reference, email, first_name, last_name, address, city, country, phone,
			shipping_method, promo_code, subtotal, discount, shipping_cost, cod_surcharge, total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING `+orderColumns,
		arg.UserID, arg.Reference, arg.Email, arg.FirstName, arg.LastName, arg.Address, arg.City,
		arg.Country, arg.Phone, arg.ShippingMethod, arg.PromoCode, arg.Subtotal, arg.Discount,
		arg.ShippingCost, arg.CODSurcharge, arg.Total)
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Reference, &o.Email, &o.FirstName, &o.LastName, &o.Address,
		&o.City, &o.Country, &o.Phone, &o.ShippingMethod, &o.PromoCode, &o.Subtotal, &o.Discount,
		&o.ShippingCost, &o.CODSurcharge, &o.Total, &o.CreatedAt)
	return o, err
}
