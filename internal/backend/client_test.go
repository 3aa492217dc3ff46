package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao-pos/balcao/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{
		BaseURL:      srv.URL,
		CompanyToken: "tok-123",
		CEPBaseURL:   srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresBaseURLAndToken(t *testing.T) {
	_, err := New(Config{CompanyToken: "tok"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestEveryRequestCarriesCompanyToken(t *testing.T) {
	var gotToken string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token_company")
		w.Write([]byte(`[]`))
	})

	_, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", gotToken)
}

func TestMutationsCarryIdempotencyKey(t *testing.T) {
	keys := map[string]string{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys[r.Method] = r.Header.Get("X-Idempotency-Key")
		w.Write([]byte(`{"data":{"uuid":"o1","status":"Pedido Recebido"}}`))
	})

	_, err := client.CreateOrder(context.Background(), domain.OrderPayload{})
	require.NoError(t, err)
	assert.NotEmpty(t, keys[http.MethodPost])

	client2 := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys[r.Method] = r.Header.Get("X-Idempotency-Key")
		w.Write([]byte(`[]`))
	})
	_, err = client2.ListOrders(context.Background(), ListOrdersParams{})
	require.NoError(t, err)
	assert.Empty(t, keys[http.MethodGet], "reads must not carry an idempotency key")
}

func TestListProductsToleratesEnvelopeShapes(t *testing.T) {
	bodies := []string{
		`[{"uuid":"p1","name":"Pizza","price":34.9}]`,
		`{"data":[{"uuid":"p1","name":"Pizza","price":"34,90"}]}`,
		`{"meta":{"page":1},"products":[{"identify":"p1","name":"Pizza","price":34.9}]}`,
	}
	for _, body := range bodies {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		products, err := client.ListProducts(context.Background())
		require.NoError(t, err, body)
		require.Len(t, products, 1, body)
		assert.Equal(t, "p1", products[0].ID, body)
		assert.InDelta(t, 34.9, products[0].Price, 0.001, body)
	}
}

func TestEnvelopeFallbackHonorsDocumentOrder(t *testing.T) {
	// Two array-valued properties with the same element shape: the one
	// appearing first in the document must win, on every call.
	body := `{"produtos":[{"uuid":"first","name":"Pizza","price":34.9}],` +
		`"destaques":[{"uuid":"second","name":"Lasanha","price":29.9}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	for i := 0; i < 20; i++ {
		products, err := client.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "first", products[0].ID)
	}
}

func TestEnvelopeDataWinsRegardlessOfPosition(t *testing.T) {
	body := `{"extras":[{"uuid":"other","name":"Suco","price":8}],` +
		`"data":[{"uuid":"p1","name":"Pizza","price":34.9}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestGetOrderNormalizesIdentityAndStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"id": 42,
			"identify": "ord-abc",
			"number": 17,
			"status": "Em Preparação / Cozinha",
			"table": {"uuid": "t1", "name": "Mesa 1"},
			"products": [
				{"identify": "p1", "name": "Pizza", "qty": 2, "price": "29,90"}
			],
			"total": "59,80"
		}}`))
	})

	order, err := client.GetOrder(context.Background(), "ord-abc")
	require.NoError(t, err)

	assert.Equal(t, "ord-abc", order.ID, "identify wins over the numeric id")
	assert.Equal(t, "17", order.Number)
	assert.Equal(t, domain.StatusPreparing, order.Status)
	assert.Equal(t, "t1", order.TableID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.InDelta(t, 29.9, order.Items[0].Price, 0.001)
	assert.InDelta(t, 59.8, order.Total, 0.001)
}

func TestGetOrderToleratesBareTableID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"uuid":"o1","status":"Pronto","table":"t9"}`))
	})

	order, err := client.GetOrder(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "t9", order.TableID)
	assert.Equal(t, domain.StatusReady, order.Status)
}

func TestAPIErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, domain.EINVALID},
		{http.StatusUnauthorized, domain.EUNAUTHORIZED},
		{http.StatusForbidden, domain.EFORBIDDEN},
		{http.StatusNotFound, domain.ENOTFOUND},
		{http.StatusConflict, domain.ECONFLICT},
		{http.StatusUnprocessableEntity, domain.EINVALID},
		{http.StatusInternalServerError, domain.EUNAVAILABLE},
	}
	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		})

		_, err := client.ListTables(context.Background())
		require.Error(t, err)
		assert.Equal(t, tt.code, domain.ErrorCode(err), "status %d", tt.status)
		assert.Equal(t, "nope", domain.ErrorMessage(err), "status %d", tt.status)
	}
}

func TestPaymentMethodKindClassifiedOnce(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"uuid":"pm1","name":"Dinheiro"},
			{"uuid":"pm2","name":"Cartão de Crédito"},
			{"uuid":"pm3","name":"Cash on delivery"},
			{"uuid":"pm4","name":"PIX"}
		]`))
	})

	methods, err := client.ListPaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 4)
	assert.Equal(t, domain.PaymentCash, methods[0].Kind)
	assert.Equal(t, domain.PaymentOther, methods[1].Kind)
	assert.Equal(t, domain.PaymentCash, methods[2].Kind)
	assert.Equal(t, domain.PaymentOther, methods[3].Kind)
}

func TestLookupPostalCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/01310100/json/", r.URL.Path)
		w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	})

	info, err := client.LookupPostalCode(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "Avenida Paulista", info.Street)
	assert.Equal(t, "São Paulo", info.City)
	assert.Equal(t, "SP", info.State)
}

func TestLookupPostalCodeRejectsBadInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid input")
	})

	_, err := client.LookupPostalCode(context.Background(), "123")
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestLookupPostalCodeNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"erro": true}`))
	})

	_, err := client.LookupPostalCode(context.Background(), "99999999")
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestListStatuses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		w.Write([]byte(`{"data":[
			{"name":"Pedido Recebido","order_position":1,"is_initial":true},
			{"name":"Em Preparação","order_position":2},
			{"name":"Pronto","order_position":3}
		]}`))
	})

	records, err := client.ListStatuses(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].IsInitial)
	assert.Equal(t, "Em Preparação", records[1].Name)
}
