package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	deliverycontext "tiffin/internal/delivery/context"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/repository"
	"tiffin/internal/errors"
	"tiffin/internal/infra/persistence/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *memory.LocalStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := memory.NewLocalStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewClientWithHTTP(srv.URL+"/api/", srv.Client(), store, logger), store
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var (
		mu                    sync.Mutex
		gotAuth, gotRequestID string
	)
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/profile", r.URL.Path)
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(deliverycontext.HeaderXRequestID)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"_id":"u1","name":"Asha","role":"end_user"}`))
	})
	require.NoError(t, store.Set(context.Background(), repository.KeyToken, "tok"))

	ctx := deliverycontext.WithRequestID(context.Background(), "req-1")
	identity, err := client.GetProfile(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, entity.ID("u1"), identity.ID)
	assert.Equal(t, entity.RoleCustomer, identity.Role)
}

func TestClient_SignInIsPublic(t *testing.T) {
	var hookCalls atomic.Int32
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
	})
	require.NoError(t, store.Set(context.Background(), repository.KeyToken, "stale"))
	client.OnUnauthorized(func(context.Context) { hookCalls.Add(1) })

	_, err := client.SignIn(context.Background(), entity.SignInRequest{Email: "a@x.io", Password: "bad"})
	require.Error(t, err)

	assert.Equal(t, "Invalid email or password", domainerrors.ServerMessageOr(err, "Login failed"))
	assert.Zero(t, hookCalls.Load())
}

func TestClient_UnauthorizedTriggersHook(t *testing.T) {
	var hookCalls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client.OnUnauthorized(func(context.Context) { hookCalls.Add(1) })

	_, err := client.ListMyOrders(context.Background())
	require.Error(t, err)

	assert.True(t, domainerrors.IsUnauthorized(err))
	assert.Equal(t, int32(1), hookCalls.Load())
}

func TestClient_SignUpSendsWireRole(t *testing.T) {
	tests := []struct {
		role entity.Role
		body string
	}{
		{role: entity.RoleCustomer, body: `{"name":"Asha","email":"asha@example.com","password":"secret1","role":"end_user"}`},
		{role: entity.RoleVendor, body: `{"name":"Asha","email":"asha@example.com","password":"secret1","role":"restaurant"}`},
		{role: entity.RoleRider, body: `{"name":"Asha","email":"asha@example.com","password":"secret1","role":"rider"}`},
		{body: `{"name":"Asha","email":"asha@example.com","password":"secret1"}`},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role.String(), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/signup", r.URL.Path)

				raw, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, tt.body, string(raw))

				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"message":"User created"}`))
			})

			require.NoError(t, client.SignUp(context.Background(), entity.SignUpRequest{
				Name:     "Asha",
				Email:    "asha@example.com",
				Password: "secret1",
				Role:     tt.role,
			}))
		})
	}
}

func TestClient_CreateOrderSendsBodyAndUnwrapsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t,
			`{"restaurant_id":7,"items":[{"menu_item_id":"A","quantity":2}],"total_amount":300,"delivery_address":"12 Main St"}`,
			string(raw))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created","order":{"id":11,"status":"pending","total_amount":300}}`))
	})

	order, err := client.CreateOrder(context.Background(), entity.PlaceOrderRequest{
		RestaurantID:    "7",
		Items:           []entity.PlaceOrderLine{{MenuItemID: "A", Quantity: 2}},
		TotalAmount:     json.Number("300"),
		DeliveryAddress: "12 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ID("11"), order.ID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}

func TestClient_RestaurantFormIsMultipartWithImage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/restaurants/r9", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Spice Route", r.FormValue("name"))
		assert.Equal(t, "4 Curry Lane", r.FormValue("address"))
		assert.Equal(t, "555-0101", r.FormValue("phone"))
		assert.Empty(t, r.FormValue("image_url"), "a file part replaces the url")

		file, header, err := r.FormFile("image")
		if assert.NoError(t, err) {
			defer file.Close()
			data, _ := io.ReadAll(file)
			assert.Equal(t, "front.png", header.Filename)
			assert.Equal(t, []byte("png-bytes"), data)
		}

		_, _ = w.Write([]byte(`{"message":"updated","restaurant":{"_id":"r9","name":"Spice Route"}}`))
	})

	restaurant, err := client.UpdateRestaurant(context.Background(), "r9", entity.RestaurantInput{
		Name:     "Spice Route",
		Address:  "4 Curry Lane",
		Phone:    "555-0101",
		ImageURL: "https://cdn.example.com/old.png",
		Image:    &entity.ImageUpload{Filename: "front.png", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ID("r9"), restaurant.ID)
	assert.Equal(t, "Spice Route", restaurant.Name)
}

func TestClient_MenuItemFormSendsImageURLWithoutFile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/restaurants/r9/menu", r.URL.Path)

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Dal", r.FormValue("name"))
		assert.Equal(t, "12.5", r.FormValue("price"))
		assert.Equal(t, "false", r.FormValue("is_available"))
		assert.Equal(t, "https://cdn.example.com/dal.png", r.FormValue("image_url"))
		_, _, err := r.FormFile("image")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"m1","name":"Dal","price":12.5}`))
	})

	item, err := client.AddMenuItem(context.Background(), "r9", entity.MenuItemInput{
		Name:     "Dal",
		Price:    decimal.RequireFromString("12.50"),
		ImageURL: "https://cdn.example.com/dal.png",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ID("m1"), item.ID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(item.Price))
}

func TestClient_MenuDeleteAndPaymentPaths(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()

		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"payment":{"_id":"p1","order_id":11,"amount":300,"status":"completed","payment_method":"card"}}`))

			return
		}
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	})

	require.NoError(t, client.DeleteMenuItem(context.Background(), "m1"))

	payment, err := client.GetOrderPayment(context.Background(), "11")
	require.NoError(t, err)
	assert.Equal(t, entity.ID("p1"), payment.ID)
	assert.Equal(t, entity.ID("11"), payment.OrderID)
	assert.Equal(t, "completed", payment.Status)
	assert.Equal(t, "card", payment.Method)
	assert.True(t, decimal.NewFromInt(300).Equal(payment.Amount))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"DELETE /api/restaurants/menu/m1", "GET /api/payments/order/11"}, paths)
}

func TestClient_StatusUpdatePaths(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ready", body["status"])

		_, _ = w.Write([]byte(`{"order":{"id":5,"status":"ready"}}`))
	})

	_, err := client.UpdateOrderStatus(context.Background(), "5", entity.OrderStatusReady)
	require.NoError(t, err)
	_, err = client.UpdateRiderStatus(context.Background(), "5", entity.OrderStatusReady)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /api/orders/5/status", "PUT /api/orders/5/rider-status"}, paths)
}

func TestClient_NullListIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	items, err := client.ListNotifications(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClient_NetworkAndDecodeErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.ListRestaurants(context.Background())
	assert.True(t, errors.Is(err, domainerrors.ErrServer))

	offline := NewClientWithHTTP("http://127.0.0.1:1/api", http.DefaultClient, memory.NewLocalStore(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err = offline.ListRestaurants(context.Background())
	assert.True(t, errors.Is(err, domainerrors.ErrNetwork))
}
