package payment

import "context"

// Repository persists payments with the same versioning rules as orders.
type Repository interface {
	Insert(ctx context.Context, p *Payment) error
	GetByOrder(ctx context.Context, orderID string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	List(ctx context.Context) ([]*Payment, error)
}
