package checkout_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-storefront/internal/checkout"
	"github.com/noah-isme/backend-storefront/internal/events"
	"github.com/noah-isme/backend-storefront/internal/pricing"
	"github.com/noah-isme/backend-storefront/internal/shipping"
	"github.com/noah-isme/backend-storefront/internal/store"
)

type fakeCarts struct {
	items   []store.CartItem
	cleared bool
}

func (f *fakeCarts) ListCartItems(context.Context, uuid.UUID) ([]store.CartItem, error) {
	return f.items, nil
}

func (f *fakeCarts) ClearCart(context.Context, uuid.UUID) error {
	f.cleared = true
	return nil
}

type fakeCatalog struct {
	snapshot map[uuid.UUID]pricing.Snapshot
}

func (f *fakeCatalog) Snapshot(context.Context, []uuid.UUID) (map[uuid.UUID]pricing.Snapshot, error) {
	return f.snapshot, nil
}

type fakeOrders struct {
	last store.InsertOrderParams
}

func (f *fakeOrders) InsertOrder(_ context.Context, arg store.InsertOrderParams) (store.Order, error) {
	f.last = arg
	return store.Order{
		ID:        uuid.New(),
		UserID:    arg.UserID,
		Reference: arg.Reference,
		Email:     arg.Email,
		FirstName: arg.FirstName,
		Total:     arg.Total,
	}, nil
}

type fakeEventStore struct {
	topics []string
}

func (f *fakeEventStore) InsertDomainEvent(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (store.DomainEvent, error) {
	f.topics = append(f.topics, topic)
	return store.DomainEvent{ID: uuid.New(), Topic: topic, AggregateID: aggregateID, Payload: payload}, nil
}

func validInput() checkout.Input {
	return checkout.Input{
		Email:          "buyer@example.com",
		FirstName:      "Ana",
		LastName:       "Silva",
		Address:        "12 Hill Road",
		City:           "Colombo",
		Country:        "LK",
		Phone:          "+94 77 000 0000",
		ShippingMethod: shipping.MethodCOD,
		PromoCode:      "SAVE10",
	}
}

func newService(t *testing.T, carts *fakeCarts, cat *fakeCatalog, orders *fakeOrders, evs *fakeEventStore) *checkout.Service {
	t.Helper()
	svc, err := checkout.NewService(checkout.Service{
		Carts:   carts,
		Catalog: cat,
		Orders:  orders,
		Events:  &events.Bus{Store: evs},
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return svc
}

func TestPlaceCollectsAllMissingFields(t *testing.T) {
	svc := newService(t, &fakeCarts{}, &fakeCatalog{}, &fakeOrders{}, &fakeEventStore{})

	in := validInput()
	in.Email = ""
	in.Phone = "   "
	in.City = ""
	_, err := svc.Place(context.Background(), uuid.New(), in)

	var missing *checkout.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	require.ElementsMatch(t, []string{"email", "phone", "city"}, missing.Fields)
}

func TestPlaceRejectsUnknownShipping(t *testing.T) {
	svc := newService(t, &fakeCarts{}, &fakeCatalog{}, &fakeOrders{}, &fakeEventStore{})
	in := validInput()
	in.ShippingMethod = "teleport"
	_, err := svc.Place(context.Background(), uuid.New(), in)
	require.ErrorIs(t, err, shipping.ErrUnknownMethod)
}

func TestPlaceEmptyCart(t *testing.T) {
	svc := newService(t, &fakeCarts{}, &fakeCatalog{}, &fakeOrders{}, &fakeEventStore{})
	_, err := svc.Place(context.Background(), uuid.New(), validInput())
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestPlaceFinalizesOrder(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	carts := &fakeCarts{items: []store.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 2},
	}}
	cat := &fakeCatalog{snapshot: map[uuid.UUID]pricing.Snapshot{
		productID: {Name: "Widget", UnitPrice: 10_000, DiscountPercent: 10},
	}}
	orders := &fakeOrders{}
	evs := &fakeEventStore{}
	svc := newService(t, carts, cat, orders, evs)

	out, err := svc.Place(context.Background(), userID, validInput())
	require.NoError(t, err)

	// 180.00 - 18.00 + 250.00 + 50.00 = 462.00
	require.Equal(t, int64(18_000), out.Pricing.Subtotal)
	require.Equal(t, int64(1_800), out.Pricing.Discount)
	require.Equal(t, int64(46_200), out.Pricing.Total)
	require.NotEmpty(t, out.Reference)
	require.Equal(t, out.Pricing.Total, orders.last.Total)
	require.Equal(t, "cod", orders.last.ShippingMethod)
	require.NotNil(t, orders.last.PromoCode)
	require.Equal(t, "SAVE10", *orders.last.PromoCode)
	require.Equal(t, []string{events.TopicOrderPlaced}, evs.topics)
	require.True(t, carts.cleared, "cart must be cleared after placement")
}

func TestPlaceProceedsPastDanglingLines(t *testing.T) {
	liveProduct := uuid.New()
	userID := uuid.New()
	danglingLine := uuid.New()
	carts := &fakeCarts{items: []store.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: liveProduct, Quantity: 1},
		{ID: danglingLine, UserID: userID, ProductID: uuid.New(), Quantity: 5},
	}}
	cat := &fakeCatalog{snapshot: map[uuid.UUID]pricing.Snapshot{
		liveProduct: {UnitPrice: 5_000},
	}}
	svc := newService(t, carts, cat, &fakeOrders{}, &fakeEventStore{})

	in := validInput()
	in.PromoCode = ""
	in.ShippingMethod = shipping.MethodPrepaid
	out, err := svc.Place(context.Background(), userID, in)
	require.NoError(t, err)
	require.Equal(t, int64(5_000), out.Pricing.Subtotal)
	require.Equal(t, []uuid.UUID{danglingLine}, out.Pricing.ExcludedLineIDs)
}

func TestPlaceAllLinesDanglingFails(t *testing.T) {
	userID := uuid.New()
	carts := &fakeCarts{items: []store.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Quantity: 1},
	}}
	svc := newService(t, carts, &fakeCatalog{snapshot: map[uuid.UUID]pricing.Snapshot{}}, &fakeOrders{}, &fakeEventStore{})
	_, err := svc.Place(context.Background(), userID, validInput())
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
}
