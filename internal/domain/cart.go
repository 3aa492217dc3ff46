package domain

import (
	"sort"
	"strconv"
	"strings"
)

// CartItem is one line of the terminal cart: a product with the
// variation and optionals chosen for it. Lines are keyed by Signature;
// two adds with the same signature merge by summing quantity.
type CartItem struct {
	Product     Product
	Quantity    int
	Observation string
	Variation   *Variation
	Optionals   []OptionalSelection
}

// Signature returns the deterministic composite key identifying this
// line: product, variation (or "base") and the sorted optional set
// with quantities (or "none"). Optional insertion order does not
// affect the result.
func (it CartItem) Signature() string {
	return ItemSignature(it.Product.ID, it.Variation, it.Optionals)
}

// ItemSignature builds a cart line key from its parts. Zero-quantity
// optionals are ignored so "no optionals" and "all optionals at zero"
// produce the same key.
func ItemSignature(productID string, variation *Variation, optionals []OptionalSelection) string {
	variationPart := "base"
	if variation != nil {
		variationPart = variation.ID
	}

	optionalPart := "none"
	if len(optionals) > 0 {
		parts := make([]string, 0, len(optionals))
		for _, sel := range optionals {
			if sel.Quantity <= 0 {
				continue
			}
			parts = append(parts, sel.Optional.ID+":"+strconv.Itoa(sel.Quantity))
		}
		if len(parts) > 0 {
			sort.Strings(parts)
			optionalPart = strings.Join(parts, ",")
		}
	}

	return productID + "|" + variationPart + "|" + optionalPart
}
