package domain

import "time"

// Order is the backend-owned order record as consumed by this layer.
// Status carries both the raw display name the backend sent and the
// tag resolved at the boundary.
type Order struct {
	ID         string
	Number     string
	StatusName string
	Status     Status

	TableID  string
	ClientID string
	Comment  string

	Items []OrderItem

	PaymentMethodID string
	NeedsChange     bool
	AmountReceived  float64

	IsDelivery bool
	Delivery   DeliveryAddress

	Total     float64
	CreatedAt time.Time
}

// OrderItem is one product line on an order, snapshotted with the
// price, variation and optionals it was sold at.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       float64
	Observation string
	Variation   *VariationSnapshot
	Optionals   []OptionalSnapshot
}

// VariationSnapshot preserves the variation as sold, independent of
// later catalog edits.
type VariationSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OptionalSnapshot preserves an optional as sold, with its per-line
// quantity.
type OptionalSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// DeliveryAddress holds the delivery fields of an order.
type DeliveryAddress struct {
	ZipCode      string `json:"delivery_zipcode,omitempty"`
	Street       string `json:"delivery_street,omitempty"`
	Number       string `json:"delivery_number,omitempty"`
	Complement   string `json:"delivery_complement,omitempty"`
	Neighborhood string `json:"delivery_neighborhood,omitempty"`
	City         string `json:"delivery_city,omitempty"`
	State        string `json:"delivery_state,omitempty"`
}

// OrderPayload is the wire shape for order create and update calls.
// Status is a pointer on purpose: nil on a plain update so the
// backend-held status is preserved, set to the target name on explicit
// transitions (advance, finalize, cancel).
type OrderPayload struct {
	CompanyToken    string           `json:"token_company"`
	ClientID        string           `json:"client_id,omitempty"`
	Table           string           `json:"table,omitempty"`
	Comment         string           `json:"comment,omitempty"`
	Products        []ProductPayload `json:"products"`
	PaymentMethodID string           `json:"payment_method_id,omitempty"`
	NeedsChange     bool             `json:"precisa_troco"`
	AmountReceived  float64          `json:"valor_recebido,omitempty"`
	IsDelivery      bool             `json:"is_delivery"`
	DeliveryAddress
	Status *string `json:"status,omitempty"`
}

// ProductPayload is one product line in an order payload.
type ProductPayload struct {
	Identify    string              `json:"identify"`
	Qty         int                 `json:"qty"`
	Price       float64             `json:"price"`
	Observation string              `json:"observation,omitempty"`
	Variation   *VariationSnapshot  `json:"variation,omitempty"`
	Optionals   []OptionalSnapshot  `json:"optionals,omitempty"`
}
