package order

import (
	"context"

	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
)

// ProductFinder is the catalog lookup createOrder prices against.
type ProductFinder interface {
	FindProduct(ctx context.Context, id string) (*domcatalog.Product, error)
}

// Locker serializes work per key. The returned func releases the key.
type Locker interface {
	Lock(key string) func()
}

// TxRunner runs fn against repositories bound to one backend transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, orders domorder.Repository, payments dompayment.Repository) error) error
}
