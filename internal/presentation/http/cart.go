package httppresentation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/auth"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
)

type addToCartRequest struct {
	UserID      string `json:"userId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var req addToCartRequest
	if err := decodeJSON(w, r, nil, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if req.UserID == "" {
		req.UserID = p.UserID
	}
	if err := auth.AuthorizeOwner(p, domuser.CapOrdersManage, req.UserID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	// productName from the client is ignored; the catalog name is stored.
	e, err := h.Cart.Add(r.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) handleCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := auth.AuthorizeOwner(principalFrom(r.Context()), domuser.CapOrdersManage, userID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	entries, err := h.Cart.Entries(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleCartProducts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := auth.AuthorizeOwner(principalFrom(r.Context()), domuser.CapOrdersManage, userID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	products, err := h.Cart.Products(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// handleRemoveFromCart removes the caller's entries for the product only.
func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if err := auth.Authorize(p, domuser.CapCartManageOwn); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if err := h.Cart.Remove(r.Context(), p.UserID, chi.URLParam(r, "productId")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed from cart"})
}

type feedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(w, r, nil, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	f, err := h.Feedback.Submit(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapFeedbackRead); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	fs, err := h.Feedback.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}
