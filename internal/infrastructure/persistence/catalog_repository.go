package persistence

import (
	"context"

	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

type CategoryRepository struct {
	col docstore.Collection
}

func NewCategoryRepository(s docstore.Store) *CategoryRepository {
	return &CategoryRepository{col: s.Collection(CollectionCategories)}
}

func (r *CategoryRepository) Insert(ctx context.Context, c *domcatalog.Category) error {
	doc := categoryDocument{ID: c.ID, Category: c.Name, Version: 1}
	return mapErr(r.col.Insert(ctx, c.ID, doc), domcatalog.ErrCategoryNotFound, domcatalog.ErrCategoryExists)
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*domcatalog.Category, error) {
	var doc categoryDocument
	if err := r.col.FindOne(ctx, docstore.Filter{fieldCategory: name}, &doc); err != nil {
		return nil, mapErr(err, domcatalog.ErrCategoryNotFound, domcatalog.ErrCategoryExists)
	}
	return &domcatalog.Category{ID: doc.ID, Name: doc.Category}, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domcatalog.Category, error) {
	var docs []categoryDocument
	if err := r.col.FindMany(ctx, nil, &docs); err != nil {
		return nil, mapErr(err, domcatalog.ErrCategoryNotFound, domcatalog.ErrCategoryExists)
	}
	out := make([]*domcatalog.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domcatalog.Category{ID: d.ID, Name: d.Category})
	}
	return out, nil
}

type ProductRepository struct {
	col docstore.Collection
}

func NewProductRepository(s docstore.Store) *ProductRepository {
	return &ProductRepository{col: s.Collection(CollectionProducts)}
}

func (r *ProductRepository) Insert(ctx context.Context, p *domcatalog.Product) error {
	doc := productToDocument(p)
	doc.Version = 1
	if err := r.col.Insert(ctx, p.ID, doc); err != nil {
		return mapErr(err, domcatalog.ErrProductNotFound, errProductConflict)
	}
	p.Version = 1
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domcatalog.Product, error) {
	var doc productDocument
	if err := r.col.FindByID(ctx, id, &doc); err != nil {
		return nil, mapErr(err, domcatalog.ErrProductNotFound, errProductConflict)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) GetMany(ctx context.Context, ids []string) ([]*domcatalog.Product, error) {
	var docs []productDocument
	if err := r.col.FindByIDs(ctx, ids, &docs); err != nil {
		return nil, mapErr(err, domcatalog.ErrProductNotFound, errProductConflict)
	}
	return productsToDomain(docs), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domcatalog.Product, error) {
	var docs []productDocument
	if err := r.col.FindMany(ctx, nil, &docs); err != nil {
		return nil, mapErr(err, domcatalog.ErrProductNotFound, errProductConflict)
	}
	return productsToDomain(docs), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domcatalog.Product) error {
	doc := productToDocument(p)
	doc.Version = p.Version + 1
	if err := r.col.Replace(ctx, p.ID, p.Version, doc); err != nil {
		return mapErr(err, domcatalog.ErrProductNotFound, errProductConflict)
	}
	p.Version++
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return mapErr(r.col.DeleteByID(ctx, id), domcatalog.ErrProductNotFound, errProductConflict)
}

func productsToDomain(docs []productDocument) []*domcatalog.Product {
	out := make([]*domcatalog.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out
}

// ReservationRepository stores held stock keyed by order id, so a second
// insert for the same order is a conflict.
type ReservationRepository struct {
	col docstore.Collection
}

func NewReservationRepository(s docstore.Store) *ReservationRepository {
	return &ReservationRepository{col: s.Collection(CollectionReserved)}
}

func (r *ReservationRepository) Insert(ctx context.Context, res *domcatalog.Reservation) error {
	doc := reservationDocument{
		OrderID:   res.OrderID,
		ProductID: res.ProductID,
		Quantity:  res.Quantity,
		CreatedAt: res.CreatedAt,
		Version:   1,
	}
	return mapErr(r.col.Insert(ctx, res.OrderID, doc), domcatalog.ErrReservationNotFound, domcatalog.ErrReservationExists)
}

func (r *ReservationRepository) Get(ctx context.Context, orderID string) (*domcatalog.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindByID(ctx, orderID, &doc); err != nil {
		return nil, mapErr(err, domcatalog.ErrReservationNotFound, domcatalog.ErrReservationExists)
	}
	return &domcatalog.Reservation{
		OrderID:   doc.OrderID,
		ProductID: doc.ProductID,
		Quantity:  doc.Quantity,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, orderID string) error {
	return mapErr(r.col.DeleteByID(ctx, orderID), domcatalog.ErrReservationNotFound, domcatalog.ErrReservationExists)
}

var (
	_ domcatalog.CategoryRepository    = (*CategoryRepository)(nil)
	_ domcatalog.ProductRepository     = (*ProductRepository)(nil)
	_ domcatalog.ReservationRepository = (*ReservationRepository)(nil)
)
