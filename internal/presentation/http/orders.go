package httppresentation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/auth"
	appOrder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/order"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability/logctx"
)

type createOrderRequest struct {
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	User          string `json:"user"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if err := auth.Authorize(p, domuser.CapOrdersPlace); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	var req createOrderRequest
	if err := decodeJSON(w, r, createOrderSchema, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	// Admins may place an order for another user; everyone else orders for
	// themselves.
	owner := p.UserID
	if req.User != "" && req.User != p.UserID {
		if err := auth.Authorize(p, domuser.CapOrdersManage); err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		owner = req.User
	}

	o, err := h.Orders.CreateOrder(r.Context(), appOrder.CreateOrderInput{
		Customer: domorder.Customer{
			Firstname: req.Firstname,
			Lastname:  req.Lastname,
			UserID:    owner,
			Phone:     req.Phone,
			Address:   req.Address,
		},
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapOrdersManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	orders, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleOrdersForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := auth.AuthorizeOwner(principalFrom(r.Context()), domuser.CapOrdersManage, userID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	orders, err := h.Orders.OrdersForUser(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// ownedOrder loads the order named in the path and checks the caller owns
// it or holds orders:manage. It writes the error response itself.
func (h *Handler) ownedOrder(w http.ResponseWriter, r *http.Request) (*domorder.Order, bool) {
	o, err := h.Orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return nil, false
	}
	if err := auth.AuthorizeOwner(principalFrom(r.Context()), domuser.CapOrdersManage, o.UserID); err != nil {
		h.writeDomainError(w, r, err)
		return nil, false
	}
	return o, true
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.ownedOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (h *Handler) decodeStatus(w http.ResponseWriter, r *http.Request) (statusRequest, domorder.Status, bool) {
	var req statusRequest
	if err := decodeJSON(w, r, statusSchema, &req); err != nil {
		h.writeDomainError(w, r, err)
		return req, "", false
	}
	status, err := domorder.ParseStatus(req.Status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return req, "", false
	}
	return req, status, true
}

func (h *Handler) handleSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapOrdersManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	_, status, ok := h.decodeStatus(w, r)
	if !ok {
		return
	}
	o, err := h.Orders.SetOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleOverrideOrderStatus(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapOrdersManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	req, status, ok := h.decodeStatus(w, r)
	if !ok {
		return
	}
	o, err := h.Orders.OverrideOrderStatus(r.Context(), chi.URLParam(r, "id"), status, req.Reason)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.ownedOrder(w, r)
	if !ok {
		return
	}
	cancelled, err := h.Orders.CancelOrder(r.Context(), o.ID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelled)
}

func (h *Handler) handleReconcileOrder(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapOrdersManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	res, err := h.Orders.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handlePaymentForOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.ownedOrder(w, r)
	if !ok {
		return
	}
	p, err := h.Payments.ForOrder(r.Context(), o.ID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapPaymentsRead); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	payments, err := h.Payments.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

type checkoutRequest struct {
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if err := auth.Authorize(p, domuser.CapOrdersPlace); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	var req checkoutRequest
	if err := decodeJSON(w, r, checkoutSchema, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	res, err := h.Checkout.Execute(r.Context(), appOrder.CheckoutInput{
		Customer: domorder.Customer{
			Firstname: req.Firstname,
			Lastname:  req.Lastname,
			UserID:    p.UserID,
			Phone:     req.Phone,
			Address:   req.Address,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil && res != nil && len(res.Orders) > 0 {
		h.writePartialCheckout(w, r, res, err)
		return
	}
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// writePartialCheckout reports a failed line while still naming the orders
// that were placed before it.
func (h *Handler) writePartialCheckout(w http.ResponseWriter, r *http.Request, res *appOrder.CheckoutResult, err error) {
	status := statusFor(err)
	msg := apperr.Reason(err)
	if status == http.StatusInternalServerError {
		logctx.FromOr(r.Context(), h.log).Error("http_internal_error",
			observability.F("route", routeFromContext(r.Context())),
			observability.F("error", err.Error()),
		)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]any{"error": msg, "orders": res.Orders})
}
