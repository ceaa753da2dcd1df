package httppresentation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application/auth"
	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
)

type categoryRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (h *Handler) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapCatalogManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, nil, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	c, err := h.Catalog.AddCategory(r.Context(), req.Category)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Catalog.Categories(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

type productRequest struct {
	Name         *string  `json:"productname"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Image        *string  `json:"image"`
	Category     *string  `json:"category"`
	CountInStock *int     `json:"countInStock"`
	Rating       *float64 `json:"rating"`
}

func (req productRequest) patch() domcatalog.ProductPatch {
	return domcatalog.ProductPatch{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Image:        req.Image,
		Category:     req.Category,
		CountInStock: req.CountInStock,
		Rating:       req.Rating,
	}
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapCatalogManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	var req productRequest
	if err := decodeJSON(w, r, nil, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	var p domcatalog.Product
	if err := req.patch().Apply(&p); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	created, err := h.Catalog.AddProduct(r.Context(), p)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.Products(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapCatalogManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	var req productRequest
	if err := decodeJSON(w, r, nil, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	p, err := h.Catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := auth.Authorize(principalFrom(r.Context()), domuser.CapCatalogManage); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
