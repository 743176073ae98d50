package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boscoapparel/shop/internal/config"
	"github.com/boscoapparel/shop/internal/domain"
	"github.com/boscoapparel/shop/internal/usecase"
)

type memProductRepo struct {
	products map[uuid.UUID]*domain.Product
}

func (r *memProductRepo) Save(_ context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, okp := r.products[id]
	if !okp {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) List(_ context.Context, _ domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) ListByCategory(_ context.Context, _ uuid.UUID) ([]domain.Product, error) {
	return nil, nil
}

func (r *memProductRepo) NewArrivals(_ context.Context, _ int) ([]domain.Product, error) {
	return nil, nil
}

func (r *memProductRepo) NameTaken(_ context.Context, _ string, _ *uuid.UUID) (bool, error) {
	return false, nil
}

func (r *memProductRepo) CountActive(_ context.Context) (int64, error) { return 0, nil }

func (r *memProductRepo) CountByCategory(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *memProductRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) error {
	p, okp := r.products[id]
	if !okp {
		return domain.ErrProductMissing{ProductID: id.String()}
	}
	next := p.Inventory.Quantity + delta
	if next < 0 {
		return domain.ErrInsufficientStock{ProductName: p.Name}
	}
	p.SetQuantity(next)
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type memOrderRepo struct {
	products *memProductRepo
	orders   map[uuid.UUID]*domain.Order
	shipping map[uuid.UUID]*domain.ShippingData
	seq      int
}

func (r *memOrderRepo) Place(ctx context.Context, o *domain.Order, ship *domain.ShippingData) error {
	for _, it := range o.Items {
		if err := r.products.AdjustQuantity(ctx, it.ProductID, -it.Qty); err != nil {
			return err
		}
	}
	r.seq++
	o.OrderNumber = fmt.Sprintf("eb%03d", r.seq)
	o.ShippingDataID = ship.ID
	r.shipping[ship.ID] = ship
	cp := *o
	cp.ShippingData = ship
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, oko := r.orders[id]
	if !oko {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) FindByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memOrderRepo) List(_ context.Context, _ domain.OrderFilter) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) Save(_ context.Context, o *domain.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) SaveWithRestock(ctx context.Context, o *domain.Order) error {
	for _, it := range o.Items {
		if err := r.products.AdjustQuantity(ctx, it.ProductID, it.Qty); err != nil {
			return err
		}
	}
	return r.Save(ctx, o)
}

type memShippingRepo struct{ orders *memOrderRepo }

func (r *memShippingRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.ShippingData, error) {
	s, oks := r.orders.shipping[id]
	if !oks {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Save(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, oku := r.users[id]
	if !oku {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.IsActive && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) ListActive(_ context.Context, _, _ int) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (r *memUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type testEnv struct {
	srv      *httptest.Server
	auth     *usecase.AuthUC
	products *memProductRepo
	orders   *memOrderRepo
}

func newTestEnv(t *testing.T, products ...*domain.Product) *testEnv {
	t.Helper()
	prodRepo := &memProductRepo{products: map[uuid.UUID]*domain.Product{}}
	for _, p := range products {
		prodRepo.products[p.ID] = p
	}
	orderRepo := &memOrderRepo{
		products: prodRepo,
		orders:   map[uuid.UUID]*domain.Order{},
		shipping: map[uuid.UUID]*domain.ShippingData{},
	}
	userRepo := &memUserRepo{users: map[uuid.UUID]*domain.User{}}

	authUC := &usecase.AuthUC{
		Users:         userRepo,
		AccessSecret:  []byte("test-access"),
		RefreshSecret: []byte("test-refresh"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	orderUC := &usecase.OrderUC{Orders: orderRepo, Products: prodRepo, Shipping: &memShippingRepo{orders: orderRepo}}

	cfg := &config.Config{Port: "0", StorageDir: t.TempDir()}
	handler := New(cfg,
		&usecase.CategoryUC{},
		&usecase.ProductUC{Products: prodRepo},
		orderUC,
		&usecase.DashboardUC{Orders: orderRepo},
		authUC,
		nil,
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, auth: authUC, products: prodRepo, orders: orderRepo}
}

func (e *testEnv) token(t *testing.T, role domain.Role) string {
	t.Helper()
	email := fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8])
	_, pair, err := e.auth.Register(context.Background(), "Test User", email, "secret123", role)
	require.NoError(t, err)
	return pair.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func shirtProduct(qty int) *domain.Product {
	p := &domain.Product{
		ID:          uuid.New(),
		Name:        "Linen Shirt",
		Description: "Breezy",
		Price:       2000,
		CategoryID:  uuid.New(),
		Status:      domain.ProductActive,
	}
	p.SetQuantity(qty)
	return p
}

func orderBody(productID uuid.UUID, qty int) map[string]any {
	return map[string]any{
		"items": []map[string]any{{"productId": productID.String(), "qty": qty}},
		"shippingData": map[string]any{
			"name":    "Nadia Bosco",
			"email":   "nadia@example.com",
			"phone":   "5551234",
			"address": "12 High St",
			"city":    "Leeds",
			"country": "UK",
		},
		"paymentType": "cod",
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp, out := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Server is running!", out["message"])
}

func TestCreateOrderContract(t *testing.T) {
	p := shirtProduct(5)
	env := newTestEnv(t, p)

	resp, out := env.do(t, http.MethodPost, "/api/orders", "", orderBody(p.ID, 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Order created successfully", out["message"])

	data := out["data"].(map[string]any)
	order := data["order"].(map[string]any)
	assert.Equal(t, "eb001", order["orderNumber"])
	assert.Equal(t, "pending", order["status"])
	assert.InDelta(t, 4000, order["subtotal"].(float64), 0.001)
	assert.InDelta(t, 4499, order["total"].(float64), 0.001)
	assert.NotEmpty(t, data["shippingDataId"])

	assert.Equal(t, 3, env.products.products[p.ID].Inventory.Quantity)
}

func TestCreateOrderMissingItems(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"shippingData": map[string]any{"name": "N"}, "paymentType": "cod"}
	resp, out := env.do(t, http.MethodPost, "/api/orders", "", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Items are required", out["message"])
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	p := shirtProduct(1)
	env := newTestEnv(t, p)

	resp, out := env.do(t, http.MethodPost, "/api/orders", "", orderBody(p.ID, 3))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient stock for Linen Shirt", out["message"])
	assert.Equal(t, 1, env.products.products[p.ID].Inventory.Quantity)
}

func TestGetOrderByNumber(t *testing.T) {
	p := shirtProduct(5)
	env := newTestEnv(t, p)
	env.do(t, http.MethodPost, "/api/orders", "", orderBody(p.ID, 1))

	resp, out := env.do(t, http.MethodGet, "/api/orders/eb001", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := out["data"].(map[string]any)
	assert.Equal(t, "eb001", order["orderNumber"])

	resp, out = env.do(t, http.MethodGet, "/api/orders/eb999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Order not found", out["message"])
}

func TestListOrdersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token provided, authorization denied", out["message"])

	userTok := env.token(t, domain.RoleUser)
	resp, out = env.do(t, http.MethodGet, "/api/orders", userTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access denied. Admin privileges required.", out["message"])

	resp, out = env.do(t, http.MethodGet, "/api/orders", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token is not valid", out["message"])
}

func TestListOrdersPagination(t *testing.T) {
	p := shirtProduct(10)
	env := newTestEnv(t, p)
	env.do(t, http.MethodPost, "/api/orders", "", orderBody(p.ID, 1))
	env.do(t, http.MethodPost, "/api/orders", "", orderBody(p.ID, 1))

	adminTok := env.token(t, domain.RoleAdmin)
	resp, out := env.do(t, http.MethodGet, "/api/orders?page=1&limit=10", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := out["data"].([]any)
	assert.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Nadia Bosco", first["customerName"])
	assert.NotEmpty(t, first["orderNumber"])

	pg := out["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pg["page"])
	assert.EqualValues(t, 2, pg["total"])
	assert.Equal(t, false, pg["hasNextPage"])
}

func TestUpdateStatusAndCancelFlow(t *testing.T) {
	p := shirtProduct(5)
	env := newTestEnv(t, p)
	env.do(t, http.MethodPost, "/api/orders", "", orderBody(p.ID, 2))

	var orderID string
	for id := range env.orders.orders {
		orderID = id.String()
	}
	adminTok := env.token(t, domain.RoleAdmin)

	resp, out := env.do(t, http.MethodPut, "/api/orders/"+orderID+"/status", adminTok, map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := out["data"].(map[string]any)
	assert.Equal(t, "confirmed", order["status"])

	resp, out = env.do(t, http.MethodPut, "/api/orders/"+orderID+"/status", adminTok, map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot change order status from confirmed to pending", out["message"])

	resp, out = env.do(t, http.MethodPost, "/api/orders/"+orderID+"/cancel", "", map[string]any{"reason": ""})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order = out["data"].(map[string]any)
	assert.Equal(t, "cancelled", order["status"])
	assert.Equal(t, "Cancelled by user", order["cancelReason"])
	assert.Equal(t, 5, env.products.products[p.ID].Inventory.Quantity)
}

func TestAuthRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Nadia", "email": "nadia@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, out["accessToken"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	_, hasHash := user["passwordHash"]
	assert.False(t, hasHash)

	resp, out = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nadia@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := out["accessToken"].(string)

	resp, out = env.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := out["user"].(map[string]any)
	assert.Equal(t, "nadia@example.com", profile["email"])

	resp, out = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nadia@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", out["message"])
}
