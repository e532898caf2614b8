package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-storefront/internal/common"
)

// Handler exposes the public browse endpoints.
type Handler struct {
	Svc *Service
}

// Products lists a page of products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 0)
	result, err := h.Svc.List(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": result.Items,
		"pagination": map[string]any{
			"page":        result.Page,
			"per_page":    result.Limit,
			"total_items": result.Total,
		},
	})
}

// ProductDetail returns one product by id.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	view, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	case errors.Is(err, ErrUnavailable):
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "catalog temporarily unavailable", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}

func parsePositiveInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
