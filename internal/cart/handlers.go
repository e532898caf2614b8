package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-storefront/internal/catalog"
	"github.com/noah-isme/backend-storefront/internal/common"
	"github.com/noah-isme/backend-storefront/internal/pricing"
	"github.com/noah-isme/backend-storefront/internal/shipping"
	"github.com/noah-isme/backend-storefront/internal/store"
)

// SnapshotReader supplies the catalog attributes needed to price the cart.
type SnapshotReader interface {
	Snapshot(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]pricing.Snapshot, error)
}

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc     *Service
	Catalog SnapshotReader
}

type lineView struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId"`
	Name            string  `json:"name,omitempty"`
	UnitPrice       int64   `json:"unitPrice"`
	DiscountPercent int32   `json:"discountPercent"`
	Quantity        int32   `json:"quantity"`
	LineTotal       int64   `json:"lineTotal"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	Unavailable     bool    `json:"unavailable,omitempty"`
}

// Get returns the cart contents together with a freshly priced quote. Prices
// always come from the current catalog snapshot, never from the cart rows.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	items, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ship, err := shipping.Resolve(defaultString(r.URL.Query().Get("shipping"), shipping.MethodPrepaid))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown shipping method", nil)
		return
	}
	code := strings.TrimSpace(r.URL.Query().Get("promo"))

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	snapshot, err := h.Catalog.Snapshot(r.Context(), ids)
	if err != nil {
		h.writeError(w, err)
		return
	}

	lines := make([]pricing.Line, 0, len(items))
	views := make([]lineView, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
		view := lineView{
			ID:        it.ID.String(),
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
		}
		if snap, ok := snapshot[it.ProductID]; ok {
			view.Name = snap.Name
			view.UnitPrice = snap.UnitPrice
			view.DiscountPercent = snap.DiscountPercent
			view.ImageURL = snap.ImageURL
			view.LineTotal = pricing.EffectiveLinePrice(snap.UnitPrice, snap.DiscountPercent, it.Quantity)
		} else {
			view.Unavailable = true
		}
		views = append(views, view)
	}
	quote := pricing.Price(lines, snapshot, code, ship)
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"items":   views,
			"pricing": quote,
		},
	})
}

// AddItem adds or merges a cart line for the authenticated user.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int32  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	productID, err := uuid.Parse(strings.TrimSpace(payload.ProductID))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	item, err := h.Svc.AddOrMerge(r.Context(), userID, productID, payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": itemView(item)})
}

// UpdateItem replaces a line's quantity.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	lineID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	var payload struct {
		Quantity int32 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Svc.SetQuantity(r.Context(), lineID, payload.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": lineID.String(), "quantity": payload.Quantity}})
}

// RemoveItem deletes a line. Repeating the call is harmless.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}
	lineID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	if err := h.Svc.Remove(r.Context(), lineID); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"removed": true}})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var storeErr *StoreError
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_QUANTITY", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrProductNotFound):
		common.JSONError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, catalog.ErrUnavailable):
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "catalog temporarily unavailable", nil)
	case errors.As(err, &storeErr):
		common.JSONError(w, http.StatusInternalServerError, "CART_STORE_ERROR", storeErr.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}

func itemView(it store.CartItem) map[string]any {
	return map[string]any{
		"id":        it.ID.String(),
		"productId": it.ProductID.String(),
		"quantity":  it.Quantity,
	}
}

func requestUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := common.UserID(r.Context())
	if !ok || strings.TrimSpace(raw) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user identity", nil)
		return uuid.Nil, false
	}
	return userID, true
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
