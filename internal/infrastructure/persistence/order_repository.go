package persistence

import (
	"context"

	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

type OrderRepository struct {
	col docstore.Collection
}

func NewOrderRepository(s docstore.Store) *OrderRepository {
	return &OrderRepository{col: s.Collection(CollectionOrders)}
}

func (r *OrderRepository) Insert(ctx context.Context, o *domorder.Order) error {
	doc := orderToDocument(o)
	doc.Version = 1
	if err := r.col.Insert(ctx, o.ID, doc); err != nil {
		return mapErr(err, domorder.ErrNotFound, domorder.ErrConflict)
	}
	o.Version = 1
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domorder.Order, error) {
	var doc orderDocument
	if err := r.col.FindByID(ctx, id, &doc); err != nil {
		return nil, mapErr(err, domorder.ErrNotFound, domorder.ErrConflict)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) Update(ctx context.Context, o *domorder.Order) error {
	doc := orderToDocument(o)
	doc.Version = o.Version + 1
	if err := r.col.Replace(ctx, o.ID, o.Version, doc); err != nil {
		return mapErr(err, domorder.ErrNotFound, domorder.ErrConflict)
	}
	o.Version++
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return mapErr(r.col.DeleteByID(ctx, id), domorder.ErrNotFound, domorder.ErrConflict)
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	return r.find(ctx, nil)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domorder.Order, error) {
	return r.find(ctx, docstore.Filter{fieldUser: userID})
}

func (r *OrderRepository) find(ctx context.Context, filter docstore.Filter) ([]*domorder.Order, error) {
	var docs []orderDocument
	if err := r.col.FindMany(ctx, filter, &docs); err != nil {
		return nil, mapErr(err, domorder.ErrNotFound, domorder.ErrConflict)
	}
	out := make([]*domorder.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

type PaymentRepository struct {
	col docstore.Collection
}

func NewPaymentRepository(s docstore.Store) *PaymentRepository {
	return &PaymentRepository{col: s.Collection(CollectionPayments)}
}

func (r *PaymentRepository) Insert(ctx context.Context, p *dompayment.Payment) error {
	doc := paymentToDocument(p)
	doc.Version = 1
	if err := r.col.Insert(ctx, p.ID, doc); err != nil {
		return mapErr(err, dompayment.ErrNotFound, dompayment.ErrConflict)
	}
	p.Version = 1
	return nil
}

func (r *PaymentRepository) GetByOrder(ctx context.Context, orderID string) (*dompayment.Payment, error) {
	var doc paymentDocument
	if err := r.col.FindOne(ctx, docstore.Filter{fieldOrder: orderID}, &doc); err != nil {
		return nil, mapErr(err, dompayment.ErrNotFound, dompayment.ErrConflict)
	}
	return doc.toDomain(), nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *dompayment.Payment) error {
	doc := paymentToDocument(p)
	doc.Version = p.Version + 1
	if err := r.col.Replace(ctx, p.ID, p.Version, doc); err != nil {
		return mapErr(err, dompayment.ErrNotFound, dompayment.ErrConflict)
	}
	p.Version++
	return nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]*dompayment.Payment, error) {
	var docs []paymentDocument
	if err := r.col.FindMany(ctx, nil, &docs); err != nil {
		return nil, mapErr(err, dompayment.ErrNotFound, dompayment.ErrConflict)
	}
	out := make([]*dompayment.Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// TxRunner binds order and payment repositories to one backend transaction.
type TxRunner struct {
	t docstore.Transactor
}

func NewTxRunner(t docstore.Transactor) *TxRunner {
	return &TxRunner{t: t}
}

func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, orders domorder.Repository, payments dompayment.Repository) error) error {
	return r.t.WithinTx(ctx, func(ctx context.Context, tx docstore.Store) error {
		return fn(ctx, NewOrderRepository(tx), NewPaymentRepository(tx))
	})
}

var (
	_ domorder.Repository   = (*OrderRepository)(nil)
	_ dompayment.Repository = (*PaymentRepository)(nil)
)
