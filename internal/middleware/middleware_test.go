package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "upstream-id", seen, "an upstream ID is reused")
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/health", "/health"},
		{"/api/pos/sessions", "/api/pos/sessions"},
		{"/api/pos/sessions/abc-123", "/api/pos/sessions/:id"},
		{"/api/pos/sessions/abc-123/cart", "/api/pos/sessions/:id/cart"},
		{"/api/pos/sessions/abc-123/cart/items/sig%7Cbase", "/api/pos/sessions/:id/cart/items/:signature"},
		{"/api/pos/orders/42", "/api/pos/orders/:id"},
		{"/api/pos/cep/01310100", "/api/pos/cep/:code"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePath(tt.in), tt.in)
	}
}
