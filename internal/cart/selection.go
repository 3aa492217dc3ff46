package cart

import (
	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/pricing"
)

// ErrVariationRequired rejects a confirm when the product has
// variations but none was chosen.
var ErrVariationRequired = domain.Invalid("selection.confirm", "Choose a variation before adding to the cart")

// Selection is the open state of the variation/optional dialog for one
// product. Products without variations or optionals never open a
// selection; they are added to the cart directly.
type Selection struct {
	product     domain.Product
	variationID string
	optionalQty map[string]int
}

// NewSelection opens the selection flow for a product. When the
// product has variations the first one is pre-selected.
func NewSelection(product domain.Product) *Selection {
	s := &Selection{
		product:     product,
		optionalQty: make(map[string]int),
	}
	if len(product.Variations) > 0 {
		s.variationID = product.Variations[0].ID
	}
	return s
}

// Product returns the product the selection is for.
func (s *Selection) Product() domain.Product {
	return s.product
}

// ChooseVariation sets the variation choice.
func (s *Selection) ChooseVariation(variationID string) error {
	for _, v := range s.product.Variations {
		if v.ID == variationID {
			s.variationID = variationID
			return nil
		}
	}
	return domain.NotFound("selection.variation", "variation", variationID)
}

// SetOptionalQuantity sets the quantity for one optional. Quantities
// clamp at zero, and a zero quantity removes the key so an empty
// selection map always means "no optionals".
func (s *Selection) SetOptionalQuantity(optionalID string, quantity int) error {
	found := false
	for _, o := range s.product.Optionals {
		if o.ID == optionalID {
			found = true
			break
		}
	}
	if !found {
		return domain.NotFound("selection.optional", "optional", optionalID)
	}

	if quantity <= 0 {
		delete(s.optionalQty, optionalID)
		return nil
	}
	s.optionalQty[optionalID] = quantity
	return nil
}

// OptionalQuantity returns the current quantity for an optional (0
// when unselected).
func (s *Selection) OptionalQuantity(optionalID string) int {
	return s.optionalQty[optionalID]
}

// SelectionState is a point-in-time copy of an open selection. It
// shares nothing with the live dialog, so it stays valid while the
// dialog keeps changing.
type SelectionState struct {
	Product      domain.Product
	VariationID  string
	OptionalQty  map[string]int
	RunningTotal float64
}

// State copies the current dialog state.
func (s *Selection) State() SelectionState {
	qty := make(map[string]int, len(s.optionalQty))
	for id, q := range s.optionalQty {
		qty[id] = q
	}
	return SelectionState{
		Product:      s.product,
		VariationID:  s.variationID,
		OptionalQty:  qty,
		RunningTotal: s.RunningTotal(),
	}
}

// VariationID returns the current variation choice ("" when the
// product has none).
func (s *Selection) VariationID() string {
	return s.variationID
}

// RunningTotal is the unit price the dialog displays for the current
// choices.
func (s *Selection) RunningTotal() float64 {
	item := domain.CartItem{
		Product:   s.product,
		Quantity:  1,
		Variation: s.chosenVariation(),
		Optionals: s.chosenOptionals(),
	}
	return pricing.UnitPrice(item)
}

// Confirm validates the selection and returns the cart line it
// produces (quantity 1). When the product has variations one must be
// chosen. The caller closes the dialog by discarding the Selection.
func (s *Selection) Confirm() (domain.CartItem, error) {
	variation := s.chosenVariation()
	if len(s.product.Variations) > 0 && variation == nil {
		return domain.CartItem{}, ErrVariationRequired
	}

	return domain.CartItem{
		Product:   s.product,
		Quantity:  1,
		Variation: variation,
		Optionals: s.chosenOptionals(),
	}, nil
}

func (s *Selection) chosenVariation() *domain.Variation {
	if s.variationID == "" {
		return nil
	}
	for i := range s.product.Variations {
		if s.product.Variations[i].ID == s.variationID {
			v := s.product.Variations[i]
			return &v
		}
	}
	return nil
}

func (s *Selection) chosenOptionals() []domain.OptionalSelection {
	if len(s.optionalQty) == 0 {
		return nil
	}
	// Iterate the product's optionals so the result order is stable.
	selections := make([]domain.OptionalSelection, 0, len(s.optionalQty))
	for _, o := range s.product.Optionals {
		if qty, ok := s.optionalQty[o.ID]; ok && qty > 0 {
			selections = append(selections, domain.OptionalSelection{Optional: o, Quantity: qty})
		}
	}
	return selections
}
