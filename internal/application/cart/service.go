package cart

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domcart "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/cart"
	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

const cartService = "cart-service"

// Catalog is the product lookup the cart needs.
type Catalog interface {
	FindProduct(ctx context.Context, id string) (*domcatalog.Product, error)
	ProductsByID(ctx context.Context, ids []string) ([]*domcatalog.Product, error)
}

type Service struct {
	entries domcart.Repository
	catalog Catalog
	ids     application.IDGenerator
	inst    *application.Instrument
}

func NewService(entries domcart.Repository, catalog Catalog, ids application.IDGenerator, tel observability.Observability) *Service {
	return &Service{entries: entries, catalog: catalog, ids: ids, inst: application.NewInstrument(tel, cartService)}
}

// Add appends an entry. Repeated adds of one product make separate entries.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) (_ *domcart.Entry, err error) {
	ctx, run := s.inst.Start(ctx, "cart.add", "AddToCart",
		attribute.String("cart.user_id", userID), attribute.String("cart.product_id", productID))
	defer func() { run.End(err) }()

	e, err := domcart.NewEntry(s.ids.NewID(), userID, productID, "", quantity)
	if err != nil {
		return nil, err
	}
	p, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	e.ProductName = p.Name
	if err := s.entries.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Entries(ctx context.Context, userID string) (_ []*domcart.Entry, err error) {
	ctx, run := s.inst.Start(ctx, "cart.entries", "CartEntries", attribute.String("cart.user_id", userID))
	defer func() { run.End(err) }()
	return s.entries.ListByUser(ctx, userID)
}

// Products resolves the user's entries to catalog products. Entries whose
// product was deleted are skipped.
func (s *Service) Products(ctx context.Context, userID string) (_ []*domcatalog.Product, err error) {
	ctx, run := s.inst.Start(ctx, "cart.products", "CartProducts", attribute.String("cart.user_id", userID))
	defer func() { run.End(err) }()

	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	return s.catalog.ProductsByID(ctx, ids)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (err error) {
	ctx, run := s.inst.Start(ctx, "cart.remove", "RemoveFromCart",
		attribute.String("cart.user_id", userID), attribute.String("cart.product_id", productID))
	defer func() { run.End(err) }()
	return s.entries.RemoveByProduct(ctx, userID, productID)
}
