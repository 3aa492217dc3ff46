package domain

// Product is a sellable catalog item owned by the backend.
// Identity is a single stable ID; the uuid/identify/name fallback chain
// the backend exposes is resolved once in the backend adapter and never
// leaks past it.
type Product struct {
	ID               string
	Name             string
	Price            float64
	PromotionalPrice *float64
	Categories       []Category
	Variations       []Variation
	Optionals        []Optional

	// ObservationSuggestions are canned note strings shown when editing
	// a cart line ("sem cebola", "ponto da carne", ...).
	ObservationSuggestions []string
}

// HasSelections reports whether adding this product requires the
// selection flow (variations or optionals to choose from).
func (p Product) HasSelections() bool {
	return len(p.Variations) > 0 || len(p.Optionals) > 0
}

// Variation is a mutually exclusive choice attached to a product, e.g.
// a size. When Price is set it replaces the product's effective price;
// when nil the product price applies.
type Variation struct {
	ID    string
	Name  string
	Price *float64
}

// Optional is an add-on attached to a product. Its price is additive
// and multiplied by the per-line quantity.
type Optional struct {
	ID    string
	Name  string
	Price float64
}

// OptionalSelection pairs an optional with the quantity chosen for one
// cart line. Quantity is always >= 1 inside a committed selection;
// zero-quantity entries are dropped before commit.
type OptionalSelection struct {
	Optional Optional
	Quantity int
}

// Category groups products for catalog browsing.
type Category struct {
	ID   string
	Name string
}

// Table is a physical table in the house. Occupancy is derived from
// today's open orders, not stored on the table itself.
type Table struct {
	ID   string
	Name string
}

// Client is a registered customer attached to an order.
type Client struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// PaymentKind is the enumerated tag carried alongside a payment
// method's display name. It is resolved once when payment methods are
// loaded from the backend, so nothing downstream matches on substrings.
type PaymentKind string

const (
	PaymentCash  PaymentKind = "cash"
	PaymentOther PaymentKind = "other"
)

// PaymentMethod is an active payment method from the backend catalog.
type PaymentMethod struct {
	ID   string
	Name string
	Kind PaymentKind
}

// IsCash reports whether the method settles in cash and therefore
// triggers the change (troco) prompt.
func (m PaymentMethod) IsCash() bool {
	return m.Kind == PaymentCash
}

// AddressInfo is the result of a postal-code lookup, used to prefill a
// delivery form.
type AddressInfo struct {
	ZipCode      string
	Street       string
	Neighborhood string
	City         string
	State        string
}
