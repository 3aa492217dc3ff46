// Package backend is the typed client for the restaurant backend REST
// API. It is the single normalization boundary: heterogeneous response
// envelopes, identifier fallback chains and string-or-number prices
// are all resolved here, so the rest of the application only sees
// domain types.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balcao-pos/balcao/internal/domain"
)

// API is the surface the services consume. Implemented by Client;
// tests substitute func-field mocks.
type API interface {
	CreateOrder(ctx context.Context, payload domain.OrderPayload) (domain.Order, error)
	UpdateOrder(ctx context.Context, orderID string, payload domain.OrderPayload) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrders(ctx context.Context, params ListOrdersParams) ([]domain.Order, error)
	SearchOrderByNumber(ctx context.Context, number string) (domain.Order, error)
	Recommendations(ctx context.Context, productIDs []string) ([]domain.Product, error)

	ListStatuses(ctx context.Context, activeOnly bool) ([]domain.StatusRecord, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListTables(ctx context.Context) ([]domain.Table, error)
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	ListClients(ctx context.Context) ([]domain.Client, error)

	LookupPostalCode(ctx context.Context, code string) (domain.AddressInfo, error)
}

// ListOrdersParams filters the order listing.
type ListOrdersParams struct {
	// Date restricts results to orders created on this day.
	Date time.Time

	// TableID restricts results to one table.
	TableID string

	// Status restricts results to one status display name.
	Status string
}

// Config configures the backend client.
type Config struct {
	// BaseURL is the root of the backend API (required).
	BaseURL string

	// CompanyToken identifies the tenant on every call (required).
	CompanyToken string

	// CEPBaseURL is the root of the postal-code lookup service.
	// Defaults to the public ViaCEP API.
	CEPBaseURL string

	// Timeout bounds each request. Defaults to 15s.
	Timeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

const defaultCEPBaseURL = "https://viacep.com.br"

// Client talks to the backend REST API.
type Client struct {
	baseURL      string
	cepBaseURL   string
	companyToken string
	http         *http.Client
	logger       *slog.Logger
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base URL is required")
	}
	if cfg.CompanyToken == "" {
		return nil, fmt.Errorf("backend: company token is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cepBase := cfg.CEPBaseURL
	if cepBase == "" {
		cepBase = defaultCEPBaseURL
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		cepBaseURL:   strings.TrimSuffix(cepBase, "/"),
		companyToken: cfg.CompanyToken,
		http:         &http.Client{Timeout: timeout},
		logger:       logger,
	}, nil
}

// CompanyToken exposes the configured tenant token for payload
// construction.
func (c *Client) CompanyToken() string {
	return c.companyToken
}

// do performs one request and returns the raw response body. Mutating
// requests carry a generated idempotency key so backend retries are
// safe. Error bodies are decoded into coded domain errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("token_company", c.companyToken)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Idempotency-Key", uuid.New().String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Unavailable(err, "backend."+method, "The backend could not be reached")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, domain.Unavailable(err, "backend."+method, "Reading the backend response failed")
	}

	if resp.StatusCode >= 400 {
		return nil, c.apiError(method, path, resp.StatusCode, data)
	}
	return data, nil
}

// apiError converts a backend error response into a domain error. The
// backend reports either {"message": ...} or {"error": ...}.
func (c *Client) apiError(method, path string, status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &envelope)

	message := envelope.Message
	if message == "" {
		message = envelope.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}

	op := fmt.Sprintf("backend.%s %s", method, path)
	c.logger.Warn("backend request rejected", "method", method, "path", path, "status", status, "message", message)

	code := domain.EUNAVAILABLE
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = domain.EINVALID
	case http.StatusUnauthorized:
		code = domain.EUNAUTHORIZED
	case http.StatusForbidden:
		code = domain.EFORBIDDEN
	case http.StatusNotFound:
		code = domain.ENOTFOUND
	case http.StatusConflict:
		code = domain.ECONFLICT
	}
	return domain.Errorf(code, op, "%s", message)
}

// decodeCollection tolerates the three envelope shapes the backend is
// known to produce: a bare array, {"data": [...]}, or an object whose
// first array-valued property is the collection. Nothing outside this
// package deals with envelopes.
func decodeCollection[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode collection: %w", err)
		}
		return items, nil
	}

	// Token-scan the object so "first array-valued property" means first
	// in the document, not first out of a map iteration. "data" wins
	// wherever it appears.
	var candidates []json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode collection envelope: %w", err)
	}
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode collection envelope: %w", err)
		}
		key, _ := keyToken.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode collection envelope: %w", err)
		}
		value := bytes.TrimSpace(raw)
		if len(value) == 0 || value[0] != '[' {
			continue
		}
		if key == "data" {
			candidates = append([]json.RawMessage{value}, candidates...)
			continue
		}
		candidates = append(candidates, value)
	}

	for _, value := range candidates {
		var items []T
		if err := json.Unmarshal(value, &items); err == nil {
			return items, nil
		}
	}

	return nil, fmt.Errorf("decode collection: no array-valued property in envelope")
}

// decodeObject unwraps a single record, tolerating a {"data": {...}}
// envelope.
func decodeObject[T any](data []byte) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return zero, fmt.Errorf("decode object: empty body")
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(bytes.TrimSpace(envelope.Data)) > 0 {
			inner := bytes.TrimSpace(envelope.Data)
			if inner[0] == '{' {
				trimmed = inner
			}
		}
	}

	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return zero, fmt.Errorf("decode object: %w", err)
	}
	return out, nil
}
