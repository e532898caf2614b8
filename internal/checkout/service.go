package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-storefront/internal/events"
	"github.com/noah-isme/backend-storefront/internal/obs"
	"github.com/noah-isme/backend-storefront/internal/pricing"
	"github.com/noah-isme/backend-storefront/internal/shipping"
	"github.com/noah-isme/backend-storefront/internal/store"
	"github.com/noah-isme/backend-storefront/internal/tasks"
)

// ErrEmptyCart is returned when there is nothing priceable to order.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// MissingFieldsError enumerates every absent required field so the caller
// can highlight all of them at once.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "checkout: missing required fields: " + strings.Join(e.Fields, ", ")
}

// CartReader is the cart store surface checkout needs.
type CartReader interface {
	ListCartItems(ctx context.Context, userID uuid.UUID) ([]store.CartItem, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// SnapshotReader supplies catalog attributes for pricing.
type SnapshotReader interface {
	Snapshot(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]pricing.Snapshot, error)
}

// OrderWriter persists the finalized order.
type OrderWriter interface {
	InsertOrder(ctx context.Context, arg store.InsertOrderParams) (store.Order, error)
}

// Locker serialises order placement per user.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Input carries the contact, address, and selection fields collected at
// checkout. Presence only; format validation belongs to the form layer.
type Input struct {
	Email          string `json:"email" validate:"required"`
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	Country        string `json:"country" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	ShippingMethod string `json:"shippingMethod" validate:"required"`
	PromoCode      string `json:"promoCode"`
}

// Confirmation is the placed-order result.
type Confirmation struct {
	OrderID   string        `json:"orderId"`
	Reference string        `json:"reference"`
	Pricing   pricing.Quote `json:"pricing"`
}

// Service finalizes orders: validates input, prices the cart against the
// current catalog snapshot, persists the order, and fans out follow-ups.
// It does not decrement product stock; inventory management stays outside
// this flow.
type Service struct {
	Carts    CartReader
	Catalog  SnapshotReader
	Orders   OrderWriter
	Events   *events.Bus
	Mailer   tasks.Enqueuer
	Locker   Locker
	LockTTL  time.Duration
	Metrics  *obs.OrderMetrics
	Logger   zerolog.Logger
	validate *validator.Validate
}

// NewService constructs a checkout service with field validation wired to
// report JSON field names.
func NewService(svc Service) (*Service, error) {
	if svc.Carts == nil || svc.Catalog == nil || svc.Orders == nil {
		return nil, errors.New("checkout: carts, catalog, and orders are required")
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
	svc.validate = v
	return &svc, nil
}

// Place finalizes the user's cart into an order.
func (s *Service) Place(ctx context.Context, userID uuid.UUID, in Input) (Confirmation, error) {
	trimInput(&in)
	if err := s.checkRequired(in); err != nil {
		return Confirmation{}, err
	}
	ship, err := shipping.Resolve(in.ShippingMethod)
	if err != nil {
		return Confirmation{}, err
	}

	var out Confirmation
	place := func(ctx context.Context) error {
		var err error
		out, err = s.place(ctx, userID, in, ship)
		return err
	}
	if s.Locker != nil {
		return out, s.Locker.WithLock(ctx, "checkout:user:"+userID.String(), s.lockTTL(), place)
	}
	return out, place(ctx)
}

func (s *Service) place(ctx context.Context, userID uuid.UUID, in Input, ship pricing.ShippingOption) (Confirmation, error) {
	items, err := s.Carts.ListCartItems(ctx, userID)
	if err != nil {
		return Confirmation{}, err
	}
	if len(items) == 0 {
		return Confirmation{}, ErrEmptyCart
	}
	ids := make([]uuid.UUID, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
		lines = append(lines, pricing.Line{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	snapshot, err := s.Catalog.Snapshot(ctx, ids)
	if err != nil {
		return Confirmation{}, err
	}
	quote := pricing.Price(lines, snapshot, in.PromoCode, ship)
	if len(quote.ExcludedLineIDs) == len(lines) {
		return Confirmation{}, ErrEmptyCart
	}

	reference := newReference()
	var promoCode *string
	if code := strings.ToUpper(strings.TrimSpace(in.PromoCode)); code != "" {
		promoCode = &code
	}
	order, err := s.Orders.InsertOrder(ctx, store.InsertOrderParams{
		UserID:         userID,
		Reference:      reference,
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Address:        in.Address,
		City:           in.City,
		Country:        in.Country,
		Phone:          in.Phone,
		ShippingMethod: ship.Method,
		PromoCode:      promoCode,
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		ShippingCost:   quote.ShippingCost,
		CODSurcharge:   quote.CODSurcharge,
		Total:          quote.Total,
	})
	if err != nil {
		return Confirmation{}, fmt.Errorf("checkout: persist order: %w", err)
	}
	s.Metrics.Observe(quote.Total)

	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicOrderPlaced, order.ID, map[string]any{
			"orderId":   order.ID.String(),
			"reference": order.Reference,
			"userId":    userID.String(),
			"total":     quote.Total,
		}); err != nil {
			s.Logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("emit order placed event")
		}
	}
	if err := s.Mailer.EnqueueOrderConfirmation(ctx, tasks.OrderConfirmationPayload{
		OrderID:   order.ID.String(),
		Reference: order.Reference,
		Email:     order.Email,
		FirstName: order.FirstName,
		Total:     order.Total,
	}); err != nil {
		s.Logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("enqueue confirmation email")
	}
	if err := s.Carts.ClearCart(ctx, userID); err != nil {
		s.Logger.Error().Err(err).Str("user_id", userID.String()).Msg("clear cart after checkout")
	}

	return Confirmation{
		OrderID:   order.ID.String(),
		Reference: order.Reference,
		Pricing:   quote,
	}, nil
}

func (s *Service) checkRequired(in Input) error {
	if s.validate == nil {
		return errors.New("checkout: service not constructed with NewService")
	}
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &MissingFieldsError{Fields: missing}
}

func (s *Service) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return 15 * time.Second
	}
	return s.LockTTL
}

func trimInput(in *Input) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ShippingMethod = strings.TrimSpace(in.ShippingMethod)
	in.PromoCode = strings.TrimSpace(in.PromoCode)
}

func newReference() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(id.String()[:8])
}
