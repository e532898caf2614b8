package shipping

import (
	"errors"
	"strings"

	"github.com/noah-isme/backend-storefront/internal/pricing"
)

// ErrUnknownMethod is returned when the requested method is not part of the
// fixed table.
var ErrUnknownMethod = errors.New("shipping: unknown method")

// Method identifiers. The table is closed and not runtime-configurable.
const (
	MethodCOD     = "cod"
	MethodPrepaid = "prepaid"
)

var options = []pricing.ShippingOption{
	{Method: MethodCOD, Cost: 25_000, Surcharge: 5_000},
	{Method: MethodPrepaid, Cost: 0, Surcharge: 0},
}

// Resolve maps a method identifier to its fixed cost entry. COD carries a
// flat handling surcharge on top of the base cost.
func Resolve(method string) (pricing.ShippingOption, error) {
	normalized := strings.ToLower(strings.TrimSpace(method))
	for _, opt := range options {
		if opt.Method == normalized {
			return opt, nil
		}
	}
	return pricing.ShippingOption{}, ErrUnknownMethod
}

// Options returns the full method table in stable order.
func Options() []pricing.ShippingOption {
	out := make([]pricing.ShippingOption, len(options))
	copy(out, options)
	return out
}
