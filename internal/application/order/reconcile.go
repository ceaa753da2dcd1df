package order

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
)

type ReconcileAction string

const (
	ReconcileNone           ReconcileAction = "none"
	ReconcilePaymentCreated ReconcileAction = "payment_created"
	ReconcilePaymentSynced  ReconcileAction = "payment_resynced"
)

type ReconcileResult struct {
	Order    *domorder.Order     `json:"order"`
	Payment  *dompayment.Payment `json:"payment"`
	Action   ReconcileAction     `json:"action"`
	Drift    []string            `json:"drift,omitempty"`
	Repaired bool                `json:"repaired"`
}

// Reconcile repairs the payment from the order, which is the source of
// truth, and clears the order's reconcile flag.
func (s *Service) Reconcile(ctx context.Context, id string) (_ *ReconcileResult, err error) {
	ctx, run := s.inst.Start(ctx, useCaseReconcile, "Reconcile", attribute.String("order.id", id))
	defer func() { run.End(err) }()

	if id == "" {
		return nil, apperr.Invalid("order id is required")
	}

	var res *ReconcileResult
	err = s.withRetry(ctx, run, id, func(ctx context.Context) error {
		var err error
		res, err = s.reconcileOnce(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	run.Field("action", string(res.Action))
	if res.Repaired {
		run.Note("REPAIRED")
	}
	return res, nil
}

func (s *Service) reconcileOnce(ctx context.Context, id string) (*ReconcileResult, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &ReconcileResult{Order: o, Action: ReconcileNone}

	p, err := s.payments.GetByOrder(ctx, id)
	switch {
	case errors.Is(err, dompayment.ErrNotFound):
		p = dompayment.NewForOrder(o)
		if err := s.payments.Insert(ctx, p); err != nil {
			return nil, fmt.Errorf("order: reconcile insert payment: %w", err)
		}
		res.Action, res.Repaired = ReconcilePaymentCreated, true
	case err != nil:
		return nil, err
	default:
		if drift := p.Drift(o); len(drift) > 0 {
			p.SyncWith(o)
			if err := s.payments.Update(ctx, p); err != nil {
				return nil, fmt.Errorf("order: reconcile update payment: %w", err)
			}
			res.Action, res.Drift, res.Repaired = ReconcilePaymentSynced, drift, true
		}
	}
	res.Payment = p

	if o.NeedsReconcile {
		o.ClearReconcile()
		if err := s.orders.Update(ctx, o); err != nil {
			return nil, fmt.Errorf("order: reconcile clear flag: %w", err)
		}
		res.Repaired = true
	}
	return res, nil
}
