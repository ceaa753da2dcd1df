package catalog

import (
	"strings"
	"time"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

var (
	ErrCategoryNotFound = apperr.New(apperr.ErrNotFound, "category not found")
	ErrCategoryExists   = apperr.New(apperr.ErrConflict, "Category already exists")
	ErrProductNotFound  = apperr.New(apperr.ErrNotFound, "product not found")
	ErrOutOfStock       = apperr.New(apperr.ErrConflict, "insufficient stock")

	ErrReservationNotFound = apperr.New(apperr.ErrNotFound, "reservation not found")
	ErrReservationExists   = apperr.New(apperr.ErrConflict, "stock already reserved for order")
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"category"`
}

func NewCategory(id, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("Category is required")
	}
	return &Category{ID: id, Name: name}, nil
}

type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"productname"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	CountInStock int     `json:"countInStock"`
	Rating       float64 `json:"rating"`
	Version      int64   `json:"version"`
}

// Validate checks the fields required to list a product.
func (p *Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return apperr.Invalid("productname is required")
	case strings.TrimSpace(p.Description) == "":
		return apperr.Invalid("description is required")
	case strings.TrimSpace(p.Image) == "":
		return apperr.Invalid("image is required")
	case strings.TrimSpace(p.Category) == "":
		return apperr.Invalid("category is required")
	case p.Price < 0:
		return apperr.Invalid("price must be zero or greater")
	case p.CountInStock < 0:
		return apperr.Invalid("countInStock must be zero or greater")
	case p.Rating < 0 || p.Rating > 5:
		return apperr.Invalid("rating must be between 0 and 5")
	}
	return nil
}

// ProductPatch carries the fields of a partial product update.
type ProductPatch struct {
	Name         *string
	Description  *string
	Price        *float64
	Image        *string
	Category     *string
	CountInStock *int
	Rating       *float64
}

// Apply writes the set fields onto p and re-validates.
func (patch ProductPatch) Apply(p *Product) error {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.CountInStock != nil {
		p.CountInStock = *patch.CountInStock
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	return p.Validate()
}

// Deduct takes qty units out of stock. It fails without changing p when
// fewer than qty remain.
func (p *Product) Deduct(qty int) error {
	if qty <= 0 {
		return apperr.Invalid("quantity must be greater than zero")
	}
	if p.CountInStock < qty {
		return ErrOutOfStock
	}
	p.CountInStock -= qty
	return nil
}

func (p *Product) Restock(qty int) error {
	if qty <= 0 {
		return apperr.Invalid("quantity must be greater than zero")
	}
	p.CountInStock += qty
	return nil
}

// Reservation records stock held by one order. At most one exists per
// order, keyed by the order id.
type Reservation struct {
	OrderID   string
	ProductID string
	Quantity  int
	CreatedAt time.Time
}

func NewReservation(orderID, productID string, qty int) (*Reservation, error) {
	switch {
	case strings.TrimSpace(orderID) == "":
		return nil, apperr.Invalid("order id is required")
	case strings.TrimSpace(productID) == "":
		return nil, apperr.Invalid("product id is required")
	case qty <= 0:
		return nil, apperr.Invalid("quantity must be greater than zero")
	}
	return &Reservation{OrderID: orderID, ProductID: productID, Quantity: qty, CreatedAt: time.Now().UTC()}, nil
}
