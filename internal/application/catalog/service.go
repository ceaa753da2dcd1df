package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

const catalogService = "catalog-service"

type Service struct {
	categories domcatalog.CategoryRepository
	products   domcatalog.ProductRepository
	ids        application.IDGenerator
	inst       *application.Instrument
}

func NewService(categories domcatalog.CategoryRepository, products domcatalog.ProductRepository, ids application.IDGenerator, tel observability.Observability) *Service {
	return &Service{
		categories: categories,
		products:   products,
		ids:        ids,
		inst:       application.NewInstrument(tel, catalogService),
	}
}

func (s *Service) AddCategory(ctx context.Context, name string) (_ *domcatalog.Category, err error) {
	ctx, run := s.inst.Start(ctx, "catalog.add_category", "AddCategory")
	defer func() { run.End(err) }()

	c, err := domcatalog.NewCategory(s.ids.NewID(), name)
	if err != nil {
		return nil, err
	}
	switch _, err := s.categories.FindByName(ctx, c.Name); {
	case err == nil:
		return nil, domcatalog.ErrCategoryExists
	case !errors.Is(err, domcatalog.ErrCategoryNotFound):
		return nil, err
	}
	if err := s.categories.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Categories(ctx context.Context) (_ []*domcatalog.Category, err error) {
	ctx, run := s.inst.Start(ctx, "catalog.list_categories", "Categories")
	defer func() { run.End(err) }()
	return s.categories.List(ctx)
}

// AddProduct lists p under an existing category. p.ID is assigned.
func (s *Service) AddProduct(ctx context.Context, p domcatalog.Product) (_ *domcatalog.Product, err error) {
	ctx, run := s.inst.Start(ctx, "catalog.add_product", "AddProduct", attribute.String("product.category", p.Category))
	defer func() { run.End(err) }()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByName(ctx, p.Category); err != nil {
		return nil, err
	}
	p.ID = s.ids.NewID()
	if err := s.products.Insert(ctx, &p); err != nil {
		return nil, err
	}
	run.Field("product_id", p.ID)
	return &p, nil
}

func (s *Service) Products(ctx context.Context) (_ []*domcatalog.Product, err error) {
	ctx, run := s.inst.Start(ctx, "catalog.list_products", "Products")
	defer func() { run.End(err) }()
	return s.products.List(ctx)
}

func (s *Service) Product(ctx context.Context, id string) (_ *domcatalog.Product, err error) {
	ctx, run := s.inst.Start(ctx, "catalog.get_product", "Product", attribute.String("product.id", id))
	defer func() { run.End(err) }()
	return s.FindProduct(ctx, id)
}

// FindProduct is the uninstrumented lookup other services price against.
func (s *Service) FindProduct(ctx context.Context, id string) (*domcatalog.Product, error) {
	if id == "" {
		return nil, apperr.Invalid("product id is required")
	}
	return s.products.Get(ctx, id)
}

// ProductsByID returns the products that still exist among ids.
func (s *Service) ProductsByID(ctx context.Context, ids []string) ([]*domcatalog.Product, error) {
	if len(ids) == 0 {
		return []*domcatalog.Product{}, nil
	}
	return s.products.GetMany(ctx, ids)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, patch domcatalog.ProductPatch) (_ *domcatalog.Product, err error) {
	ctx, run := s.inst.Start(ctx, "catalog.update_product", "UpdateProduct", attribute.String("product.id", id))
	defer func() { run.End(err) }()

	p, err := s.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(p); err != nil {
		return nil, err
	}
	if patch.Category != nil {
		if _, err := s.categories.FindByName(ctx, p.Category); err != nil {
			return nil, err
		}
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("catalog: update product: %w", err)
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) (err error) {
	ctx, run := s.inst.Start(ctx, "catalog.delete_product", "DeleteProduct", attribute.String("product.id", id))
	defer func() { run.End(err) }()

	if id == "" {
		return apperr.Invalid("product id is required")
	}
	return s.products.Delete(ctx, id)
}
