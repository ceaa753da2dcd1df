package httppresentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/auth"
	appcart "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/cart"
	appcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/catalog"
	appfeedback "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/feedback"
	appOrder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/order"
	apppayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/payment"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/id"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/keylock"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/memory"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/persistence"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/security"
)

const adminEmail = "admin@shop.test"

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newServices(t *testing.T) Services {
	t.Helper()
	store := memory.NewStore()
	ids := id.NewUUIDGenerator()

	tokens, err := security.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	catalog := appcatalog.NewService(persistence.NewCategoryRepository(store), persistence.NewProductRepository(store), ids, nil)
	payments := persistence.NewPaymentRepository(store)
	orders := appOrder.NewService(persistence.NewOrderRepository(store), payments, catalog, ids, nil,
		appOrder.WithLocker(keylock.New()))
	cartRepo := persistence.NewCartRepository(store)

	return Services{
		Orders:   orders,
		Checkout: appOrder.NewCheckoutUseCase(cartRepo, orders, nil),
		Payments: apppayment.NewService(payments, nil),
		Catalog:  catalog,
		Cart:     appcart.NewService(cartRepo, catalog, ids, nil),
		Feedback: appfeedback.NewService(persistence.NewFeedbackRepository(store), ids, nil),
		Auth:     auth.NewService(persistence.NewUserRepository(store), security.NewBcryptHasher(4), tokens, ids, []string{adminEmail}, nil),
		Tokens:   tokens,
	}
}

func newTestServer(t *testing.T, svcs Services, opts ...Option) *testServer {
	return &testServer{t: t, handler: NewHandler(svcs, nil, opts...).Router()}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type session struct {
	UserID string
	Token  string
}

func (s *testServer) signup(email string) session {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/register", "", map[string]string{
		"firstname": "Ada", "lastname": "Lovelace", "email": email, "password": "hunter22",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": "hunter22"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[struct {
		User    struct{ ID string } `json:"user"`
		Token   string              `json:"token"`
		IsAdmin bool                `json:"isAdmin"`
	}](s.t, rec)
	assert.Equal(s.t, email == adminEmail, res.IsAdmin)
	return session{UserID: res.User.ID, Token: res.Token}
}

// seedProduct lists one product and returns its id.
func (s *testServer) seedProduct(admin session) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/add-category", admin.Token, map[string]string{"category": "Lighting"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/add-products", admin.Token, map[string]any{
		"productname": "Desk lamp", "description": "Warm light", "price": 19.5,
		"image": "lamp.png", "category": "Lighting", "countInStock": 4, "rating": 4.5,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[struct{ ID string }](s.t, rec).ID
}

type orderBody struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
	Status string `json:"status"`
}

func (s *testServer) placeOrder(user session, productID string) orderBody {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/orders", user.Token, map[string]any{
		"firstname": "Ada", "lastname": "Lovelace", "phone": "555", "address": "1 Analytical Way",
		"productId": productID, "quantity": 2, "paymentMethod": "card",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[orderBody](s.t, rec)
}

func TestHealthEchoesRequestID(t *testing.T) {
	s := newTestServer(t, newServices(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get(headerRequestID))
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) })
	s := newTestServer(t, newServices(t), WithMetricsHandler(metrics))

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, newServices(t))

	rec := s.do(http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing authorization", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodGet, "/orders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := s.signup(adminEmail)
	ada := s.signup("ada@shop.test")
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/orders", ada.Token, nil).Code, "token verified, capability missing")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/orders", admin.Token, nil).Code)
}

func TestRegisterDuplicateAndBadLogin(t *testing.T) {
	s := newTestServer(t, newServices(t))
	s.signup("ada@shop.test")

	rec := s.do(http.MethodPost, "/register", "", map[string]string{
		"firstname": "Ada", "email": "ADA@shop.test", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodPost, "/login", "", map[string]string{"email": "ada@shop.test", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode[map[string]string](t, rec)["error"])
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, newServices(t))
	admin := s.signup(adminEmail)
	ada := s.signup("ada@shop.test")
	eve := s.signup("eve@shop.test")
	productID := s.seedProduct(admin)

	o := s.placeOrder(ada, productID)
	assert.Equal(t, string(domorder.StatusPending), o.Status)
	assert.Equal(t, ada.UserID, o.UserID)

	rec := s.do(http.MethodGet, "/orders/"+o.ID+"/payment", ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pay := decode[map[string]any](t, rec)
	assert.Equal(t, "Pending", pay["status"])
	assert.Equal(t, "Pending", pay["deliveryStatus"])

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/orders/"+o.ID, eve.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/orders", ada.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden,
		s.do(http.MethodPut, "/orders/"+o.ID, ada.Token, map[string]string{"status": "Delivered"}).Code)

	rec = s.do(http.MethodPut, "/orders/"+o.ID, admin.Token, map[string]string{"status": "in-transit"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "InTransit", decode[orderBody](t, rec).Status)

	rec = s.do(http.MethodPut, "/orders/"+o.ID, admin.Token, map[string]string{"status": "Delivered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, "/cancel-order/"+o.ID, ada.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/orders/"+o.ID+"/payment", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", decode[map[string]any](t, rec)["status"])

	rec = s.do(http.MethodGet, "/my-orders/"+ada.UserID, ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]orderBody](t, rec), 1)

	rec = s.do(http.MethodGet, "/my-orders/"+eve.UserID, eve.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No orders found for this user", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodPost, "/orders/"+o.ID+"/reconcile", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "none", decode[map[string]any](t, rec)["action"])
}

func TestOwnerCancelsAndAdminOverrides(t *testing.T) {
	s := newTestServer(t, newServices(t))
	admin := s.signup(adminEmail)
	ada := s.signup("ada@shop.test")
	productID := s.seedProduct(admin)

	o := s.placeOrder(ada, productID)
	rec := s.do(http.MethodPut, "/cancel-order/"+o.ID, ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Cancelled", decode[orderBody](t, rec).Status)

	delivered := s.placeOrder(ada, productID)
	require.Equal(t, http.StatusOK,
		s.do(http.MethodPut, "/orders/"+delivered.ID, admin.Token, map[string]string{"status": "Delivered"}).Code)

	rec = s.do(http.MethodPut, "/orders/"+delivered.ID+"/override", admin.Token, map[string]string{"status": "Cancelled"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a reason is required")

	rec = s.do(http.MethodPut, "/orders/"+delivered.ID+"/override", admin.Token,
		map[string]string{"status": "Cancelled", "reason": "returned to sender"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Cancelled", decode[orderBody](t, rec).Status)
}

func TestOrderLookupsOnEmptyStore(t *testing.T) {
	s := newTestServer(t, newServices(t))
	admin := s.signup(adminEmail)

	rec := s.do(http.MethodGet, "/orders", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/orders/missing", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "order not found", decode[map[string]string](t, rec)["error"])

	rec = s.do(http.MethodGet, "/orders/missing/payment", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	s := newTestServer(t, newServices(t))
	admin := s.signup(adminEmail)
	ada := s.signup("ada@shop.test")
	productID := s.seedProduct(admin)

	cases := map[string]struct {
		body any
		code int
	}{
		"zero quantity":   {map[string]any{"firstname": "Ada", "productId": productID, "quantity": 0}, http.StatusBadRequest},
		"unknown field":   {map[string]any{"firstname": "Ada", "productId": productID, "discount": 50}, http.StatusBadRequest},
		"malformed json":  {`{"firstname":`, http.StatusBadRequest},
		"unknown product": {map[string]any{"firstname": "Ada", "productId": "missing", "quantity": 1, "paymentMethod": "card"}, http.StatusNotFound},
		"other user":      {map[string]any{"firstname": "Ada", "productId": productID, "user": admin.UserID}, http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/orders", ada.Token, tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, newServices(t))
	big := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `","password":"x"}`

	rec := s.do(http.MethodPost, "/login", "", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body too large", decode[map[string]string](t, rec)["error"])
}

func TestCartAndCheckout(t *testing.T) {
	s := newTestServer(t, newServices(t))
	admin := s.signup(adminEmail)
	ada := s.signup("ada@shop.test")
	eve := s.signup("eve@shop.test")
	productID := s.seedProduct(admin)

	rec := s.do(http.MethodPost, "/add-to-cart", ada.Token, map[string]any{"productId": productID, "quantity": 3})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Desk lamp", decode[map[string]any](t, rec)["productName"])

	assert.Equal(t, http.StatusForbidden,
		s.do(http.MethodPost, "/add-to-cart", eve.Token, map[string]any{"userId": ada.UserID, "productId": productID}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/cart/"+ada.UserID, eve.Token, nil).Code)

	rec = s.do(http.MethodGet, "/cart/"+ada.UserID+"/products", ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/remove-from-cart/"+productID, eve.Token, nil).Code,
		"removal only touches the caller's cart")

	rec = s.do(http.MethodPost, "/checkout", ada.Token, map[string]any{"firstname": "Ada", "paymentMethod": "card"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[struct{ Orders []orderBody }](t, rec)
	require.Len(t, res.Orders, 1)
	assert.Equal(t, ada.UserID, res.Orders[0].UserID)

	rec = s.do(http.MethodGet, "/cart/"+ada.UserID, ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = s.do(http.MethodPost, "/checkout", ada.Token, map[string]any{"firstname": "Ada"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cart is empty", decode[map[string]string](t, rec)["error"])
}

func TestCatalogAndFeedbackAccess(t *testing.T) {
	s := newTestServer(t, newServices(t))
	admin := s.signup(adminEmail)
	ada := s.signup("ada@shop.test")
	productID := s.seedProduct(admin)

	assert.Equal(t, http.StatusForbidden,
		s.do(http.MethodPost, "/add-category", ada.Token, map[string]string{"category": "Garden"}).Code)
	assert.Equal(t, http.StatusConflict,
		s.do(http.MethodPost, "/add-category", admin.Token, map[string]string{"category": "Lighting"}).Code)

	rec := s.do(http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(http.MethodPut, "/products/"+productID, admin.Token, map[string]any{"price": 25.0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.InDelta(t, 25.0, decode[map[string]any](t, rec)["price"], 0.001)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/products/"+productID, "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/products/"+productID, admin.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/products/"+productID, "", nil).Code)

	rec = s.do(http.MethodPost, "/feedback", "", map[string]string{"name": "Ada", "email": "ada@shop.test", "message": "Love it"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/feedback", ada.Token, nil).Code)

	rec = s.do(http.MethodGet, "/feedback", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/users", ada.Token, nil).Code)
	rec = s.do(http.MethodGet, "/users", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]map[string]any](t, rec)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "PasswordHash")
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, newServices(t), WithRateLimit(RateLimit{RPS: 0.001, Burst: 1}))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decode[map[string]string](t, rec)["error"])
}

func TestIPLimitersSweepIdleClients(t *testing.T) {
	l := newIPLimiters(1, 1)
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))

	now = now.Add(limiterIdle + limiterSweep + time.Second)
	assert.True(t, l.allow("10.0.0.2"))
	_, kept := l.clients.Load("10.0.0.1")
	assert.False(t, kept)
}

type failingOrders struct {
	OrderService
}

func (failingOrders) ListOrders(context.Context) ([]*domorder.Order, error) {
	return nil, fmt.Errorf("%w: %w", apperr.ErrStorage, errors.New("connection reset"))
}

func TestInternalErrorsAreMasked(t *testing.T) {
	svcs := newServices(t)
	s := newTestServer(t, svcs)
	admin := s.signup(adminEmail)

	svcs.Orders = failingOrders{}
	s = newTestServer(t, svcs)

	rec := s.do(http.MethodGet, "/orders", admin.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode[map[string]string](t, rec)["error"])
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Invalid("bad"), http.StatusBadRequest},
		{apperr.New(apperr.ErrUnauthorized, "who"), http.StatusUnauthorized},
		{auth.ErrForbidden, http.StatusForbidden},
		{domorder.ErrNotFound, http.StatusNotFound},
		{domorder.ErrConflict, http.StatusConflict},
		{apperr.New(apperr.ErrInvalidTransition, "no"), http.StatusConflict},
		{apperr.ErrInvariantViolation, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestBearerToken(t *testing.T) {
	tok, err := bearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = bearerToken("")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = bearerToken("Basic abc")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
