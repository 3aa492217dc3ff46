// Package pricing resolves effective prices for products and cart
// lines. The backend serves prices as decimals, strings or nulls
// depending on the endpoint, so everything funnels through Parse,
// which degrades malformed input to 0 instead of erroring.
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/balcao-pos/balcao/internal/domain"
)

// Parse coerces a price value of any wire shape to a non-negative
// float. Strings may use a comma decimal separator. Anything
// non-numeric yields 0; there are no error states.
func Parse(v any) float64 {
	var f float64

	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		f, _ = t.Float64()
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Effective returns the price a product currently sells at: the
// promotional price when set and strictly lower than the base price,
// otherwise the base price.
func Effective(p domain.Product) float64 {
	base := p.Price
	if base < 0 {
		base = 0
	}
	if p.PromotionalPrice != nil {
		promo := *p.PromotionalPrice
		if promo >= 0 && promo < base {
			return promo
		}
	}
	return base
}

// UnitPrice computes the price of a single unit of a cart line. The
// variation's own price replaces the base when the line has one and
// the variation defines a price; optionals are additive, multiplied by
// their per-line quantity.
func UnitPrice(item domain.CartItem) float64 {
	base := Effective(item.Product)
	if item.Variation != nil && item.Variation.Price != nil {
		base = *item.Variation.Price
		if base < 0 {
			base = 0
		}
	}

	total := base
	for _, sel := range item.Optionals {
		if sel.Quantity <= 0 {
			continue
		}
		total += sel.Optional.Price * float64(sel.Quantity)
	}
	return total
}

// LineTotal is the unit price multiplied by the line quantity.
func LineTotal(item domain.CartItem) float64 {
	return UnitPrice(item) * float64(item.Quantity)
}
