package catalog

import "context"

type CategoryRepository interface {
	Insert(ctx context.Context, c *Category) error
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

type ProductRepository interface {
	Insert(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	GetMany(ctx context.Context, ids []string) ([]*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

type ReservationRepository interface {
	Insert(ctx context.Context, r *Reservation) error
	Get(ctx context.Context, orderID string) (*Reservation, error)
	Delete(ctx context.Context, orderID string) error
}
