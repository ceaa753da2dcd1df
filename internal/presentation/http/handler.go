// Package httppresentation exposes the shop over JSON/HTTP.
package httppresentation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/auth"
	appOrder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/order"
	domcart "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/cart"
	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	domfeedback "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/feedback"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in appOrder.CreateOrderInput) (*domorder.Order, error)
	ListOrders(ctx context.Context) ([]*domorder.Order, error)
	OrdersForUser(ctx context.Context, userID string) ([]*domorder.Order, error)
	GetOrder(ctx context.Context, id string) (*domorder.Order, error)
	SetOrderStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error)
	CancelOrder(ctx context.Context, id string) (*domorder.Order, error)
	OverrideOrderStatus(ctx context.Context, id string, status domorder.Status, reason string) (*domorder.Order, error)
	Reconcile(ctx context.Context, id string) (*appOrder.ReconcileResult, error)
}

type Checkout interface {
	Execute(ctx context.Context, in appOrder.CheckoutInput) (*appOrder.CheckoutResult, error)
}

type PaymentService interface {
	List(ctx context.Context) ([]*dompayment.Payment, error)
	ForOrder(ctx context.Context, orderID string) (*dompayment.Payment, error)
}

type CatalogService interface {
	AddCategory(ctx context.Context, name string) (*domcatalog.Category, error)
	Categories(ctx context.Context) ([]*domcatalog.Category, error)
	AddProduct(ctx context.Context, p domcatalog.Product) (*domcatalog.Product, error)
	Products(ctx context.Context) ([]*domcatalog.Product, error)
	Product(ctx context.Context, id string) (*domcatalog.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domcatalog.ProductPatch) (*domcatalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type CartService interface {
	Add(ctx context.Context, userID, productID string, quantity int) (*domcart.Entry, error)
	Entries(ctx context.Context, userID string) ([]*domcart.Entry, error)
	Products(ctx context.Context, userID string) ([]*domcatalog.Product, error)
	Remove(ctx context.Context, userID, productID string) error
}

type FeedbackService interface {
	Submit(ctx context.Context, name, email, message string) (*domfeedback.Feedback, error)
	List(ctx context.Context) ([]*domfeedback.Feedback, error)
}

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*domuser.User, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Users(ctx context.Context) ([]*domuser.User, error)
}

type TokenVerifier interface {
	Verify(token string) (domuser.Principal, error)
}

// Services groups the use cases the router dispatches to.
type Services struct {
	Orders   OrderService
	Checkout Checkout
	Payments PaymentService
	Catalog  CatalogService
	Cart     CartService
	Feedback FeedbackService
	Auth     AuthService
	Tokens   TokenVerifier
}

// RateLimit is the per-client token bucket. A zero RPS disables limiting.
type RateLimit struct {
	RPS   float64
	Burst int
}

type Handler struct {
	Services
	limiters *ipLimiters
	metrics  http.Handler
	log      observability.Logger
	tel      observability.Observability
}

type Option func(*Handler)

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option { return func(hd *Handler) { hd.metrics = h } }

func WithRateLimit(rl RateLimit) Option {
	return func(h *Handler) {
		if rl.RPS > 0 && rl.Burst > 0 {
			h.limiters = newIPLimiters(rl.RPS, rl.Burst)
		}
	}
}

func NewHandler(svcs Services, tel observability.Observability, opts ...Option) *Handler {
	tel = observability.Or(tel)
	h := &Handler{
		Services: svcs,
		log:      tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:      tel,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type access int

const (
	public access = iota
	authenticated
)

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.Recoverer)

	h.handle(r, http.MethodGet, "/health", h.handleHealth, public)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	h.handle(r, http.MethodPost, "/register", h.handleRegister, public)
	h.handle(r, http.MethodPost, "/login", h.handleLogin, public)
	h.handle(r, http.MethodGet, "/users", h.handleListUsers, authenticated)

	h.handle(r, http.MethodPost, "/orders", h.handleCreateOrder, authenticated)
	h.handle(r, http.MethodGet, "/orders", h.handleListOrders, authenticated)
	h.handle(r, http.MethodGet, "/my-orders/{userId}", h.handleOrdersForUser, authenticated)
	h.handle(r, http.MethodGet, "/orders/{id}", h.handleGetOrder, authenticated)
	h.handle(r, http.MethodPut, "/orders/{id}", h.handleSetOrderStatus, authenticated)
	h.handle(r, http.MethodPut, "/cancel-order/{id}", h.handleCancelOrder, authenticated)
	h.handle(r, http.MethodPut, "/orders/{id}/override", h.handleOverrideOrderStatus, authenticated)
	h.handle(r, http.MethodPost, "/orders/{id}/reconcile", h.handleReconcileOrder, authenticated)
	h.handle(r, http.MethodGet, "/orders/{id}/payment", h.handlePaymentForOrder, authenticated)
	h.handle(r, http.MethodPost, "/checkout", h.handleCheckout, authenticated)
	h.handle(r, http.MethodGet, "/payments", h.handleListPayments, authenticated)

	h.handle(r, http.MethodPost, "/add-category", h.handleAddCategory, authenticated)
	h.handle(r, http.MethodGet, "/api/categories", h.handleListCategories, public)
	h.handle(r, http.MethodPost, "/add-products", h.handleAddProduct, authenticated)
	h.handle(r, http.MethodGet, "/products", h.handleListProducts, public)
	h.handle(r, http.MethodGet, "/products/{id}", h.handleGetProduct, public)
	h.handle(r, http.MethodPut, "/products/{id}", h.handleUpdateProduct, authenticated)
	h.handle(r, http.MethodDelete, "/products/{id}", h.handleDeleteProduct, authenticated)

	h.handle(r, http.MethodPost, "/add-to-cart", h.handleAddToCart, authenticated)
	h.handle(r, http.MethodGet, "/cart/{userId}", h.handleCart, authenticated)
	h.handle(r, http.MethodGet, "/cart/{userId}/products", h.handleCartProducts, authenticated)
	h.handle(r, http.MethodDelete, "/remove-from-cart/{productId}", h.handleRemoveFromCart, authenticated)

	h.handle(r, http.MethodPost, "/feedback", h.handleSubmitFeedback, public)
	h.handle(r, http.MethodGet, "/feedback", h.handleListFeedback, authenticated)

	return r
}

// handle wraps fn as Trace → Request Logger → Access Log → Metrics →
// Rate Limit → Auth → fn, with the route template on the context.
func (h *Handler) handle(r chi.Router, method, pattern string, fn http.HandlerFunc, a access) {
	route := method + " " + pattern

	var next http.Handler = fn
	if a == authenticated {
		next = h.requireAuth(next)
	}
	next = h.withRateLimit(next)
	next = h.withHTTPMetrics(next)
	next = h.withAccessLog(next)
	next = ObservabilityMiddleware(h.log, func(r *http.Request) string {
		return r.Header.Get(headerRequestID)
	})(next)
	next = h.withTrace(next)

	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		next.ServeHTTP(w, req.WithContext(contextWithRoute(req.Context(), route)))
	}))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
