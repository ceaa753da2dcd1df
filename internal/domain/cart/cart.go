package cart

import (
	"context"
	"time"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

var ErrEntryNotFound = apperr.New(apperr.ErrNotFound, "Product not found in cart")

// Entry is one cart line. Several entries may reference the same product.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"addedAt"`
}

func NewEntry(id, userID, productID, productName string, quantity int) (*Entry, error) {
	if userID == "" {
		return nil, apperr.Invalid("userId is required")
	}
	if productID == "" {
		return nil, apperr.Invalid("productId is required")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.Invalid("quantity must be greater than zero")
	}
	return &Entry{
		ID:          id,
		UserID:      userID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		AddedAt:     time.Now().UTC(),
	}, nil
}

type Repository interface {
	Add(ctx context.Context, e *Entry) error
	ListByUser(ctx context.Context, userID string) ([]*Entry, error)
	Remove(ctx context.Context, entryID string) error
	// RemoveByProduct deletes one entry of userID referencing productID.
	RemoveByProduct(ctx context.Context, userID, productID string) error
}
