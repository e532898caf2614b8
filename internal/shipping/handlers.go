package shipping

import (
	"net/http"

	"github.com/noah-isme/backend-storefront/internal/common"
)

// Handler exposes the shipping method table over HTTP.
type Handler struct{}

// Options lists every shipping method with its base cost and surcharge.
func (Handler) Options(w http.ResponseWriter, _ *http.Request) {
	methods := Options()
	payload := make([]map[string]any, 0, len(methods))
	for _, opt := range methods {
		payload = append(payload, map[string]any{
			"method":    opt.Method,
			"cost":      opt.Cost,
			"surcharge": opt.Surcharge,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": payload})
}
