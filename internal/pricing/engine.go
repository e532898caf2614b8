package pricing

import (
	"github.com/google/uuid"

	"github.com/noah-isme/backend-storefront/internal/promo"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// Line is a cart row to be priced. Lines never carry a price of their own;
// the effective price is always derived from the catalog snapshot.
type Line struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
}

// Snapshot holds the catalog attributes of one product as of read time.
type Snapshot struct {
	Name            string
	UnitPrice       Money
	DiscountPercent int32
	Available       int32
	ImageURL        *string
}

// ShippingOption is one entry of the fixed shipping method table.
type ShippingOption struct {
	Method    string
	Cost      Money
	Surcharge Money
}

// Quote itemises a fully reconciled order total.
type Quote struct {
	Subtotal        Money       `json:"subtotal"`
	Discount        Money       `json:"discount"`
	ShippingCost    Money       `json:"shippingCost"`
	CODSurcharge    Money       `json:"codSurcharge"`
	Total           Money       `json:"total"`
	ExcludedLineIDs []uuid.UUID `json:"excludedLineIds,omitempty"`
}

// Price computes the order total for the given cart lines against a catalog
// snapshot, an optional promotion code, and a shipping selection. Lines whose
// product is absent from the snapshot are excluded from the subtotal and
// reported in ExcludedLineIDs; the caller decides whether that blocks
// checkout. Pure computation: identical inputs yield identical output.
func Price(lines []Line, catalog map[uuid.UUID]Snapshot, code string, ship ShippingOption) Quote {
	q := Quote{ShippingCost: ship.Cost, CODSurcharge: ship.Surcharge}
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		snap, ok := catalog[line.ProductID]
		if !ok {
			q.ExcludedLineIDs = append(q.ExcludedLineIDs, line.ID)
			continue
		}
		q.Subtotal += EffectiveLinePrice(snap.UnitPrice, snap.DiscountPercent, line.Quantity)
	}
	q.Discount = DiscountFor(q.Subtotal, code)
	q.Total = q.Subtotal - q.Discount + q.ShippingCost + q.CODSurcharge
	return q
}

// DiscountFor returns the promotion discount on subtotal for code, capped
// at the subtotal itself.
func DiscountFor(subtotal Money, code string) Money {
	discount := percentOf(subtotal, promo.Percent(code))
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// EffectiveLinePrice derives the discount-adjusted, quantity-multiplied price
// of one line. A discount percent outside [0,100] is clamped into range so
// the result can never go negative.
func EffectiveLinePrice(unitPrice Money, discountPercent int32, qty int32) Money {
	if unitPrice < 0 || qty <= 0 {
		return 0
	}
	pct := int64(discountPercent)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	gross := unitPrice * Money(qty)
	return gross - percentOf(gross, pct)
}

// percentOf applies a flat percentage to an amount, rounding half-up to the
// nearest minor unit.
func percentOf(amount Money, percent int64) Money {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return (amount*percent + 50) / 100
}
