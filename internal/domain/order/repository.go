package order

import "context"

// Repository persists orders. Update and Delete are version-checked against
// o.Version; a successful Insert or Update advances o.Version.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}
