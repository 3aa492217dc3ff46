package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/balcao-pos/balcao/internal/domain"
)

// CreateOrder submits a new order and returns the normalized record
// the backend stored.
func (c *Client) CreateOrder(ctx context.Context, payload domain.OrderPayload) (domain.Order, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/orders", nil, payload)
	if err != nil {
		return domain.Order{}, err
	}
	wire, err := decodeObject[orderWire](data)
	if err != nil {
		return domain.Order{}, domain.Internal(err, "backend.CreateOrder", "The backend response could not be decoded")
	}
	return wire.toDomain(), nil
}

// UpdateOrder replaces an order's contents. Status transitions travel
// through the same endpoint with payload.Status set.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, payload domain.OrderPayload) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.Invalid("backend.UpdateOrder", "order id is required")
	}
	data, err := c.do(ctx, http.MethodPut, "/api/v1/orders/"+url.PathEscape(orderID), nil, payload)
	if err != nil {
		return domain.Order{}, err
	}
	wire, err := decodeObject[orderWire](data)
	if err != nil {
		return domain.Order{}, domain.Internal(err, "backend.UpdateOrder", "The backend response could not be decoded")
	}
	return wire.toDomain(), nil
}

// GetOrder fetches one order by its identifier.
func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.Invalid("backend.GetOrder", "order id is required")
	}
	data, err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+url.PathEscape(orderID), nil, nil)
	if err != nil {
		return domain.Order{}, err
	}
	wire, err := decodeObject[orderWire](data)
	if err != nil {
		return domain.Order{}, domain.Internal(err, "backend.GetOrder", "The backend response could not be decoded")
	}
	return wire.toDomain(), nil
}

// ListOrders lists orders, optionally filtered by day, table and
// status.
func (c *Client) ListOrders(ctx context.Context, params ListOrdersParams) ([]domain.Order, error) {
	query := url.Values{}
	if !params.Date.IsZero() {
		query.Set("date", params.Date.Format("2006-01-02"))
	}
	if params.TableID != "" {
		query.Set("table", params.TableID)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}

	data, err := c.do(ctx, http.MethodGet, "/api/v1/orders", query, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[orderWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.ListOrders", "The backend response could not be decoded")
	}

	orders := make([]domain.Order, 0, len(wires))
	for _, w := range wires {
		orders = append(orders, w.toDomain())
	}
	return orders, nil
}

// SearchOrderByNumber finds an order by its human-facing number.
func (c *Client) SearchOrderByNumber(ctx context.Context, number string) (domain.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return domain.Order{}, domain.Invalid("backend.SearchOrderByNumber", "order number is required")
	}

	query := url.Values{}
	query.Set("number", number)
	data, err := c.do(ctx, http.MethodGet, "/api/v1/orders/search", query, nil)
	if err != nil {
		return domain.Order{}, err
	}
	wire, err := decodeObject[orderWire](data)
	if err != nil {
		return domain.Order{}, domain.Internal(err, "backend.SearchOrderByNumber", "The backend response could not be decoded")
	}
	order := wire.toDomain()
	if order.ID == "" {
		return domain.Order{}, domain.NotFound("backend.SearchOrderByNumber", "order", number)
	}
	return order, nil
}

// Recommendations asks the backend for products that sell alongside
// the given ones. Callers degrade locally when this fails.
func (c *Client) Recommendations(ctx context.Context, productIDs []string) ([]domain.Product, error) {
	query := url.Values{}
	if len(productIDs) > 0 {
		query.Set("products", strings.Join(productIDs, ","))
	}

	data, err := c.do(ctx, http.MethodGet, "/api/v1/recommendations", query, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[productWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.Recommendations", "The backend response could not be decoded")
	}

	products := make([]domain.Product, 0, len(wires))
	for _, w := range wires {
		products = append(products, w.toDomain())
	}
	return products, nil
}

// ListStatuses fetches the tenant's order-status ladder.
func (c *Client) ListStatuses(ctx context.Context, activeOnly bool) ([]domain.StatusRecord, error) {
	query := url.Values{}
	if activeOnly {
		query.Set("active", strconv.FormatBool(true))
	}

	data, err := c.do(ctx, http.MethodGet, "/api/v1/statuses", query, nil)
	if err != nil {
		return nil, err
	}
	wires, err := decodeCollection[statusWire](data)
	if err != nil {
		return nil, domain.Internal(err, "backend.ListStatuses", "The backend response could not be decoded")
	}

	records := make([]domain.StatusRecord, 0, len(wires))
	for _, w := range wires {
		records = append(records, w.toDomain())
	}
	return records, nil
}
