package backend

import (
	"context"
	"net/http"
	"regexp"

	"github.com/balcao-pos/balcao/internal/domain"
)

// cashNamePattern matches payment method names that mean physical
// cash, across the Portuguese and English labels tenants use.
var cashNamePattern = regexp.MustCompile(`(?i)dinheiro|money|cash`)

// classifyPaymentKind resolves a payment method name into a kind
// exactly once, here at the boundary. Services only ever check
// PaymentMethod.Kind, never the name.
func classifyPaymentKind(name string) domain.PaymentKind {
	if cashNamePattern.MatchString(name) {
		return domain.PaymentCash
	}
	return domain.PaymentOther
}

// ListProducts fetches the tenant's product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/products", nil, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[productWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.ListProducts", "The backend response could not be decoded")
	}

	products := make([]domain.Product, 0, len(wires))
	for _, w := range wires {
		products = append(products, w.toDomain())
	}
	return products, nil
}

// ListCategories fetches the catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[categoryWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.ListCategories", "The backend response could not be decoded")
	}

	categories := make([]domain.Category, 0, len(wires))
	for _, w := range wires {
		categories = append(categories, w.toDomain())
	}
	return categories, nil
}

// ListTables fetches the tenant's tables.
func (c *Client) ListTables(ctx context.Context) ([]domain.Table, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/tables", nil, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[tableWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.ListTables", "The backend response could not be decoded")
	}

	tables := make([]domain.Table, 0, len(wires))
	for _, w := range wires {
		tables = append(tables, w.toDomain())
	}
	return tables, nil
}

// ListPaymentMethods fetches payment methods with their kind already
// classified.
func (c *Client) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/payment-methods", nil, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[paymentMethodWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.ListPaymentMethods", "The backend response could not be decoded")
	}

	methods := make([]domain.PaymentMethod, 0, len(wires))
	for _, w := range wires {
		methods = append(methods, w.toDomain())
	}
	return methods, nil
}

// ListClients fetches the tenant's registered clients.
func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/clients", nil, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[clientWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.ListClients", "The backend response could not be decoded")
	}

	clients := make([]domain.Client, 0, len(wires))
	for _, w := range wires {
		clients = append(clients, w.toDomain())
	}
	return clients, nil
}
