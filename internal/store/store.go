package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts the pgx pool/transaction surface used by Queries.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles the hand-written SQL used by the storefront services.
type Queries struct {
	db DBTX
}

// New constructs Queries over a pool or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the provided transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Product is a catalog row. Price is in minor currency units.
type Product struct {
	ID              uuid.UUID
	SellerID        uuid.UUID
	Name            string
	Price           int64
	DiscountPercent int32
	Quantity        int32
	ImageURL        *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CartItem is one (user, product, quantity) row. The (user_id, product_id)
// pair is unique at the storage layer.
type CartItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is a placed-order row carrying the reconciled totals and the contact
// fields collected at checkout.
type Order struct {
	ID             uuid.UUID
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
	CreatedAt      time.Time
}

// DomainEvent is a persisted domain event row.
type DomainEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	OccurredAt  time.Time
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
