package pricing

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-storefront/internal/common"
	"github.com/noah-isme/backend-storefront/internal/promo"
)

// PreviewHandler answers promo code previews so the storefront can show
// the discount before checkout.
type PreviewHandler struct{}

type previewRequest struct {
	Code     string `json:"code"`
	Subtotal Money  `json:"subtotal"`
}

type previewResponse struct {
	Code     string `json:"code"`
	Known    bool   `json:"known"`
	Percent  int64  `json:"percent"`
	Discount Money  `json:"discount"`
}

// Preview computes the discount a code would yield on a given subtotal.
// Unknown codes are not an error; they preview as zero discount.
func (PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if req.Subtotal < 0 {
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_SUBTOTAL", "subtotal must not be negative", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": previewResponse{
		Code:     req.Code,
		Known:    promo.Known(req.Code),
		Percent:  promo.Percent(req.Code),
		Discount: DiscountFor(req.Subtotal, req.Code),
	}})
}
