package backend

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/pricing"
)

// flexFloat decodes a price that may arrive as a number, a numeric
// string (possibly comma-separated) or null. Malformed values degrade
// to 0, matching pricing.Parse.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(pricing.Parse(v))
	return nil
}

// flexID decodes an identifier that may arrive as a string or a
// number.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

// firstNonEmpty applies the backend's identity fallback chain
// (uuid -> identify -> name). This is a data-quality concession kept
// strictly at the boundary; domain types carry one required ID.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// -----------------------------------------------------------------------------
// Catalog wire types
// -----------------------------------------------------------------------------

type productWire struct {
	UUID             flexID     `json:"uuid"`
	Identify         flexID     `json:"identify"`
	ID               flexID     `json:"id"`
	Name             string     `json:"name"`
	Price            flexFloat  `json:"price"`
	PromotionalPrice *flexFloat `json:"promotional_price"`

	Categories []categoryWire  `json:"categories"`
	Variations []variationWire `json:"variations"`
	Optionals  []optionalWire  `json:"optionals"`

	// Two historical field names for the same thing.
	ObservationTemplates   []string `json:"observation_templates"`
	ObservationSuggestions []string `json:"observation_suggestions"`
}

func (w productWire) toDomain() domain.Product {
	p := domain.Product{
		ID:    firstNonEmpty(string(w.UUID), string(w.Identify), string(w.ID), w.Name),
		Name:  w.Name,
		Price: float64(w.Price),
	}
	if w.PromotionalPrice != nil {
		promo := float64(*w.PromotionalPrice)
		p.PromotionalPrice = &promo
	}
	for _, c := range w.Categories {
		p.Categories = append(p.Categories, c.toDomain())
	}
	for _, v := range w.Variations {
		p.Variations = append(p.Variations, v.toDomain())
	}
	for _, o := range w.Optionals {
		p.Optionals = append(p.Optionals, o.toDomain())
	}
	p.ObservationSuggestions = w.ObservationSuggestions
	if len(p.ObservationSuggestions) == 0 {
		p.ObservationSuggestions = w.ObservationTemplates
	}
	return p
}

type variationWire struct {
	ID       flexID     `json:"id"`
	Identify flexID     `json:"identify"`
	Name     string     `json:"name"`
	Price    *flexFloat `json:"price"`
}

func (w variationWire) toDomain() domain.Variation {
	v := domain.Variation{
		ID:   firstNonEmpty(string(w.ID), string(w.Identify), w.Name),
		Name: w.Name,
	}
	if w.Price != nil {
		price := float64(*w.Price)
		v.Price = &price
	}
	return v
}

type optionalWire struct {
	ID       flexID    `json:"id"`
	Identify flexID    `json:"identify"`
	Name     string    `json:"name"`
	Price    flexFloat `json:"price"`
}

func (w optionalWire) toDomain() domain.Optional {
	return domain.Optional{
		ID:    firstNonEmpty(string(w.ID), string(w.Identify), w.Name),
		Name:  w.Name,
		Price: float64(w.Price),
	}
}

type categoryWire struct {
	ID       flexID `json:"id"`
	Identify flexID `json:"identify"`
	URL      string `json:"url"`
	Name     string `json:"name"`
}

func (w categoryWire) toDomain() domain.Category {
	return domain.Category{
		ID:   firstNonEmpty(string(w.Identify), string(w.ID), w.URL, w.Name),
		Name: w.Name,
	}
}

type tableWire struct {
	ID       flexID `json:"id"`
	Identify flexID `json:"identify"`
	UUID     flexID `json:"uuid"`
	Name     string `json:"name"`
}

func (w tableWire) toDomain() domain.Table {
	return domain.Table{
		ID:   firstNonEmpty(string(w.UUID), string(w.Identify), string(w.ID), w.Name),
		Name: w.Name,
	}
}

type clientWire struct {
	ID       flexID `json:"id"`
	UUID     flexID `json:"uuid"`
	Identify flexID `json:"identify"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (w clientWire) toDomain() domain.Client {
	return domain.Client{
		ID:    firstNonEmpty(string(w.UUID), string(w.Identify), string(w.ID), w.Email, w.Name),
		Name:  w.Name,
		Email: w.Email,
		Phone: w.Phone,
	}
}

type paymentMethodWire struct {
	ID   flexID `json:"id"`
	UUID flexID `json:"uuid"`
	Name string `json:"name"`
}

func (w paymentMethodWire) toDomain() domain.PaymentMethod {
	return domain.PaymentMethod{
		ID:   firstNonEmpty(string(w.UUID), string(w.ID), w.Name),
		Name: w.Name,
		Kind: classifyPaymentKind(w.Name),
	}
}

type statusWire struct {
	Name          string `json:"name"`
	OrderPosition int    `json:"order_position"`
	IsInitial     bool   `json:"is_initial"`
}

func (w statusWire) toDomain() domain.StatusRecord {
	return domain.StatusRecord{
		Name:          w.Name,
		OrderPosition: w.OrderPosition,
		IsInitial:     w.IsInitial,
	}
}

// -----------------------------------------------------------------------------
// Order wire types
// -----------------------------------------------------------------------------

type orderWire struct {
	ID       flexID `json:"id"`
	UUID     flexID `json:"uuid"`
	Identify flexID `json:"identify"`
	Number   flexID `json:"number"`
	Status   string `json:"status"`

	Table    tableRef `json:"table"`
	ClientID flexID   `json:"client_id"`
	Comment  string   `json:"comment"`

	Products []orderProductWire `json:"products"`

	PaymentMethodID flexID    `json:"payment_method_id"`
	NeedsChange     bool      `json:"precisa_troco"`
	AmountReceived  flexFloat `json:"valor_recebido"`

	IsDelivery           bool   `json:"is_delivery"`
	DeliveryZipCode      string `json:"delivery_zipcode"`
	DeliveryStreet       string `json:"delivery_street"`
	DeliveryNumber       string `json:"delivery_number"`
	DeliveryComplement   string `json:"delivery_complement"`
	DeliveryNeighborhood string `json:"delivery_neighborhood"`
	DeliveryCity         string `json:"delivery_city"`
	DeliveryState        string `json:"delivery_state"`

	Total     flexFloat `json:"total"`
	CreatedAt string    `json:"created_at"`
	Date      string    `json:"date"`
}

func (w orderWire) toDomain() domain.Order {
	o := domain.Order{
		ID:              firstNonEmpty(string(w.UUID), string(w.Identify), string(w.ID)),
		Number:          string(w.Number),
		StatusName:      w.Status,
		Status:          domain.StatusFromName(w.Status),
		TableID:         w.Table.id(),
		ClientID:        string(w.ClientID),
		Comment:         w.Comment,
		PaymentMethodID: string(w.PaymentMethodID),
		NeedsChange:     w.NeedsChange,
		AmountReceived:  float64(w.AmountReceived),
		IsDelivery:      w.IsDelivery,
		Delivery: domain.DeliveryAddress{
			ZipCode:      w.DeliveryZipCode,
			Street:       w.DeliveryStreet,
			Number:       w.DeliveryNumber,
			Complement:   w.DeliveryComplement,
			Neighborhood: w.DeliveryNeighborhood,
			City:         w.DeliveryCity,
			State:        w.DeliveryState,
		},
		Total: float64(w.Total),
	}
	for _, p := range w.Products {
		o.Items = append(o.Items, p.toDomain())
	}
	for _, raw := range []string{w.CreatedAt, w.Date} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				o.CreatedAt = ts
				break
			}
		}
		if !o.CreatedAt.IsZero() {
			break
		}
	}
	return o
}

// tableRef tolerates the table arriving as a bare identifier or as an
// embedded object.
type tableRef struct {
	value string
}

func (t *tableRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		t.value = ""
		return nil
	}
	if trimmed[0] == '{' {
		var w tableWire
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return err
		}
		t.value = w.toDomain().ID
		return nil
	}
	var id flexID
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return err
	}
	t.value = string(id)
	return nil
}

func (t tableRef) id() string { return t.value }

type orderProductWire struct {
	Identify    flexID     `json:"identify"`
	UUID        flexID     `json:"uuid"`
	ID          flexID     `json:"id"`
	Name        string     `json:"name"`
	Qty         int        `json:"qty"`
	Quantity    int        `json:"quantity"`
	Price       flexFloat  `json:"price"`
	Observation string     `json:"observation"`
	Variation   *variationWire `json:"variation"`
	Optionals   []orderOptionalWire `json:"optionals"`
}

func (w orderProductWire) toDomain() domain.OrderItem {
	qty := w.Qty
	if qty == 0 {
		qty = w.Quantity
	}
	item := domain.OrderItem{
		ProductID:   firstNonEmpty(string(w.UUID), string(w.Identify), string(w.ID), w.Name),
		ProductName: w.Name,
		Quantity:    qty,
		Price:       float64(w.Price),
		Observation: w.Observation,
	}
	if w.Variation != nil {
		v := w.Variation.toDomain()
		snapshot := domain.VariationSnapshot{ID: v.ID, Name: v.Name}
		if v.Price != nil {
			snapshot.Price = *v.Price
		}
		item.Variation = &snapshot
	}
	for _, o := range w.Optionals {
		item.Optionals = append(item.Optionals, domain.OptionalSnapshot{
			ID:       firstNonEmpty(string(o.ID), string(o.Identify), o.Name),
			Name:     o.Name,
			Price:    float64(o.Price),
			Quantity: o.Quantity,
		})
	}
	return item
}

type orderOptionalWire struct {
	ID       flexID    `json:"id"`
	Identify flexID    `json:"identify"`
	Name     string    `json:"name"`
	Price    flexFloat `json:"price"`
	Quantity int       `json:"quantity"`
}
