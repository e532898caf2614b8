package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-storefront/internal/cart"
	"github.com/noah-isme/backend-storefront/internal/catalog"
	"github.com/noah-isme/backend-storefront/internal/common"
	"github.com/noah-isme/backend-storefront/internal/shipping"
)

// Handler wires the checkout service to HTTP.
type Handler struct {
	Svc *Service
}

// Checkout finalizes the authenticated user's cart into an order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	raw, ok := common.UserID(r.Context())
	if !ok || strings.TrimSpace(raw) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user identity", nil)
		return
	}
	var payload Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Place(r.Context(), userID, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var missing *MissingFieldsError
	var storeErr *cart.StoreError
	switch {
	case errors.As(err, &missing):
		common.JSONError(w, http.StatusUnprocessableEntity, "MISSING_FIELDS", "required fields are missing", map[string]any{"fields": missing.Fields})
	case errors.Is(err, shipping.ErrUnknownMethod):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown shipping method", nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusConflict, "EMPTY_CART", "nothing to order", nil)
	case errors.Is(err, catalog.ErrUnavailable):
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "catalog temporarily unavailable", nil)
	case errors.As(err, &storeErr):
		common.JSONError(w, http.StatusInternalServerError, "CART_STORE_ERROR", storeErr.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
