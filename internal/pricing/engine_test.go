package pricing

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestPriceCODWithItemAndOrderDiscounts(t *testing.T) {
	// Unit price 100.00, 10% product discount, qty 2 => subtotal 180.00.
	// SAVE10 takes another 18.00, COD adds 250.00 + 50.00.
	productID := uuid.New()
	lines := []Line{{ID: uuid.New(), ProductID: productID, Quantity: 2}}
	catalog := map[uuid.UUID]Snapshot{
		productID: {Name: "Widget", UnitPrice: 10_000, DiscountPercent: 10},
	}
	ship := ShippingOption{Method: "cod", Cost: 25_000, Surcharge: 5_000}

	q := Price(lines, catalog, "SAVE10", ship)
	if q.Subtotal != 18_000 {
		t.Fatalf("subtotal: expected 18000, got %d", q.Subtotal)
	}
	if q.Discount != 1_800 {
		t.Fatalf("discount: expected 1800, got %d", q.Discount)
	}
	if q.ShippingCost != 25_000 || q.CODSurcharge != 5_000 {
		t.Fatalf("shipping: expected 25000/5000, got %d/%d", q.ShippingCost, q.CODSurcharge)
	}
	if q.Total != 46_200 {
		t.Fatalf("total: expected 46200, got %d", q.Total)
	}
	if len(q.ExcludedLineIDs) != 0 {
		t.Fatalf("expected no excluded lines, got %v", q.ExcludedLineIDs)
	}
}

func TestPriceUnknownPromoCode(t *testing.T) {
	productID := uuid.New()
	lines := []Line{{ID: uuid.New(), ProductID: productID, Quantity: 1}}
	catalog := map[uuid.UUID]Snapshot{productID: {UnitPrice: 5_000}}
	ship := ShippingOption{Method: "prepaid"}

	q := Price(lines, catalog, "FOO", ship)
	if q.Discount != 0 {
		t.Fatalf("expected zero discount for unknown code, got %d", q.Discount)
	}
	if q.Total != q.Subtotal+q.ShippingCost {
		t.Fatalf("expected total %d, got %d", q.Subtotal+q.ShippingCost, q.Total)
	}
}

func TestPriceExcludesDanglingLines(t *testing.T) {
	known := uuid.New()
	danglingLine := uuid.New()
	lines := []Line{
		{ID: uuid.New(), ProductID: known, Quantity: 1},
		{ID: danglingLine, ProductID: uuid.New(), Quantity: 3},
	}
	catalog := map[uuid.UUID]Snapshot{known: {UnitPrice: 2_500}}

	q := Price(lines, catalog, "", ShippingOption{})
	if q.Subtotal != 2_500 {
		t.Fatalf("expected dangling line omitted from subtotal, got %d", q.Subtotal)
	}
	if len(q.ExcludedLineIDs) != 1 || q.ExcludedLineIDs[0] != danglingLine {
		t.Fatalf("expected excluded line %s, got %v", danglingLine, q.ExcludedLineIDs)
	}
}

func TestPriceIsDeterministic(t *testing.T) {
	productID := uuid.New()
	lines := []Line{{ID: uuid.New(), ProductID: productID, Quantity: 7}}
	catalog := map[uuid.UUID]Snapshot{productID: {UnitPrice: 1_999, DiscountPercent: 13}}
	ship := ShippingOption{Method: "cod", Cost: 25_000, Surcharge: 5_000}

	first := Price(lines, catalog, "SAVE20", ship)
	second := Price(lines, catalog, "SAVE20", ship)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical quotes, got %+v vs %+v", first, second)
	}
}

func TestDiscountClampAtFullSubtotal(t *testing.T) {
	// A 100% discount must leave exactly shipping + surcharge, never a
	// negative pre-shipping subtotal.
	if got := percentOf(18_000, 100); got != 18_000 {
		t.Fatalf("expected full subtotal discount, got %d", got)
	}
	subtotal := Money(18_000)
	discount := percentOf(subtotal, 100)
	if discount > subtotal {
		discount = subtotal
	}
	total := subtotal - discount + 25_000 + 5_000
	if total != 30_000 {
		t.Fatalf("expected total 30000 at 100%% discount, got %d", total)
	}
}

func TestPercentOfRoundsHalfUp(t *testing.T) {
	// 10% of 1.05 is 0.105, which rounds up to 0.11.
	if got := percentOf(105, 10); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
	// 10% of 1.04 is 0.104, which rounds down to 0.10.
	if got := percentOf(104, 10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestEffectiveLinePriceNeverNegative(t *testing.T) {
	cases := []struct {
		unit Money
		pct  int32
		qty  int32
	}{
		{0, 0, 1},
		{10_000, 100, 3},
		{10_000, 120, 3},
		{10_000, -5, 2},
	}
	for _, tc := range cases {
		if got := EffectiveLinePrice(tc.unit, tc.pct, tc.qty); got < 0 {
			t.Fatalf("EffectiveLinePrice(%d,%d,%d) = %d, want >= 0", tc.unit, tc.pct, tc.qty, got)
		}
	}
	if got := EffectiveLinePrice(10_000, 120, 1); got != 0 {
		t.Fatalf("discount above 100%% should clamp to free, got %d", got)
	}
}
