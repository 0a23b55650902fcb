package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neighborhub/internal/apiclient"
)

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, error) {
	if s == "" {
		return "", apiclient.ErrNoSession
	}
	return string(s), nil
}

func TestClient_NoSessionSendsNothing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, err := apiclient.New(srv.URL, staticToken("")).GetCart(context.Background())

	assert.ErrorIs(t, err, apiclient.ErrNoSession)
	assert.Equal(t, "No hay sesión activa. Por favor inicia sesión.", err.Error())
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_SendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "/carrito", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id_carrito":1,"id_producto":7,"cantidad":2,"precio_unitario":"10.00","subtotal":"20.00"}],"total":"20.00","item_count":2}`))
	}))
	defer srv.Close()

	cart, err := apiclient.New(srv.URL, staticToken("tok-1")).GetCart(context.Background())

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "20.00", cart.Total.StringFixed(2))
	assert.Equal(t, int64(2), cart.ItemCount)
}

func TestClient_NoContentIsZeroValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cart, err := apiclient.New(srv.URL, staticToken("t")).RemoveCartItem(context.Background(), 3)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClient_ErrorBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","stock"],"msg":"debe ser un número entero","type":"value_error"}]}`))
	}))
	defer srv.Close()

	_, err := apiclient.New(srv.URL, staticToken("t")).UpdateInventory(context.Background(), 4, apiclient.InventoryRequest{Stock: "x"})

	ae, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.StatusCode)
	assert.Equal(t, "Error de validación:\nstock: debe ser un número entero", ae.Error())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := apiclient.New(srv.URL, staticToken("t"), apiclient.WithTimeout(50*time.Millisecond)).ListStores(context.Background())

	var te *apiclient.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, srv.URL, te.BaseURL)
	assert.Contains(t, err.Error(), "Timeout: El servidor no respondió en 10 segundos.")
}

func TestClient_CallerCancelIsNotTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := apiclient.New(srv.URL, staticToken("t")).ListStores(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := apiclient.New(url, staticToken("t")).ListStores(context.Background())

	var ne *apiclient.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, err.Error(), "No se pudo conectar al servidor.")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestClient_PlaceOrderSendsIdempotencyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pedidos", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("X-Idempotency-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2), body["id_direccion"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id_pedido":10,"estado":"pendiente","total":"25.00"}`))
	}))
	defer srv.Close()

	order, err := apiclient.New(srv.URL, staticToken("t")).PlaceOrder(context.Background(), apiclient.PlaceOrderRequest{AddressID: 2}, "key-1")

	require.NoError(t, err)
	assert.Equal(t, int64(10), order.ID)
	assert.Equal(t, "25.00", order.Total.StringFixed(2))
}

func TestClient_QueryParams(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RequestURI())
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	c := apiclient.New(srv.URL+"/", staticToken("t"))
	cat := int64(4)

	_, err := c.ListProducts(context.Background(), 2, &cat)
	require.NoError(t, err)
	_, err = c.ListOrdersByStatus(context.Background(), "pendiente")
	require.NoError(t, err)
	_, err = c.StockHistory(context.Background(), 31, 0, 0)
	require.NoError(t, err)
	_, err = c.StockHistory(context.Background(), 31, 10, 20)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/productos/2?categoria=4",
		"/pedidos/estado/pendiente",
		"/inventarios/31/historial",
		"/inventarios/31/historial?limit=10&offset=20",
	}, got)
}
