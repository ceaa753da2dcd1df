package order

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

type statusChange struct {
	target   domorder.Status
	override bool
	cancel   bool
	reason   string
}

func (s *Service) changeStatus(ctx context.Context, run *application.Run, id string, c statusChange) (*domorder.Order, error) {
	if id == "" {
		run.Fail("ORDER_ID_REQUIRED")
		return nil, apperr.Invalid("order id is required")
	}
	if !c.target.Valid() {
		run.Fail("STATUS_INVALID")
		return nil, apperr.Invalid("unknown order status " + string(c.target))
	}

	var (
		result *domorder.Order
		from   domorder.Status
	)
	err := s.withRetry(ctx, run, id, func(ctx context.Context) error {
		var err error
		result, from, err = s.applyStatus(ctx, run, id, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	run.Span().SetAttributes(
		attribute.String("order.from_status", string(from)),
		attribute.String("order.status", string(result.Status)),
	)
	if from == result.Status {
		run.Note("UNCHANGED")
		return result, nil
	}

	s.inst.Emit(ctx, run, s.publisher, domorder.NewOrderStatusChangedEvent(result, from, c.override, c.reason))
	if result.Status == domorder.StatusCancelled {
		s.inst.Emit(ctx, run, s.publisher, domorder.NewOrderCancelledEvent(result, from))
	}
	return result, nil
}

// applyStatus is one read-compute-write cycle. It returns the order as
// stored and the status it moved from.
func (s *Service) applyStatus(ctx context.Context, run *application.Run, id string, c statusChange) (*domorder.Order, domorder.Status, error) {
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		run.Fail("ORDER_LOAD_FAILED")
		return nil, "", err
	}
	p, err := s.payments.GetByOrder(ctx, id)
	if err != nil {
		run.Fail("PAYMENT_LOAD_FAILED")
		return nil, "", err
	}
	from := current.Status

	if from == c.target {
		return current, from, s.resync(ctx, run, current, p)
	}

	next := current.Clone()
	switch {
	case c.override:
		err = next.ForceStatus(c.target)
	case c.cancel && from == domorder.StatusDelivered && s.allowCancelDelivered:
		err = next.ForceStatus(c.target)
	default:
		err = next.TransitionTo(c.target)
	}
	if err != nil {
		run.Fail("STATE_TRANSITION_FAILED")
		return nil, "", err
	}

	before := p.Clone()
	p.SyncWith(next)

	if s.tx != nil {
		err := s.tx.RunInTx(ctx, func(ctx context.Context, orders domorder.Repository, payments dompayment.Repository) error {
			if err := payments.Update(ctx, p); err != nil {
				return err
			}
			return orders.Update(ctx, next)
		})
		if err != nil {
			run.Fail("TX_UPDATE_FAILED")
			return nil, "", fmt.Errorf("order: update status: %w", err)
		}
		return next, from, nil
	}

	if err := s.payments.Update(ctx, p); err != nil {
		run.Fail("PAYMENT_UPDATE_FAILED")
		return nil, "", fmt.Errorf("order: update payment: %w", err)
	}
	if err := s.orders.Update(ctx, next); err != nil {
		return nil, "", s.restorePayment(ctx, run, id, before, p, err)
	}
	return next, from, nil
}

// restorePayment puts the payment back after the order write failed.
// A conflict on the order is returned as is so the cycle retries.
func (s *Service) restorePayment(ctx context.Context, run *application.Run, orderID string, before, written *dompayment.Payment, cause error) error {
	run.Fail("ORDER_UPDATE_FAILED")
	cctx, cancel := compensationContext(ctx)
	defer cancel()

	before.Version = written.Version
	if rerr := s.payments.Update(cctx, before); rerr != nil {
		run.Fail("COMPENSATION_FAILED")
		s.requireReconcile(cctx, run, orderID, "order update failed and payment restore failed")
		return fmt.Errorf("%w: payment for order %s left ahead of order: %w", apperr.ErrInvariantViolation, orderID, errors.Join(cause, rerr))
	}
	run.Logger().Warn("payment_restored", observability.F("order_id", orderID), observability.F("error", cause))

	if errors.Is(cause, apperr.ErrConflict) {
		return cause
	}
	return fmt.Errorf("order: update order, payment restored: %w", cause)
}

// resync rewrites the payment from the order when they drifted. An in-sync
// pair is left untouched.
func (s *Service) resync(ctx context.Context, run *application.Run, o *domorder.Order, p *dompayment.Payment) error {
	drift := p.Drift(o)
	if len(drift) == 0 {
		return nil
	}
	run.Field("drift", drift)
	p.SyncWith(o)
	if err := s.payments.Update(ctx, p); err != nil {
		run.Fail("PAYMENT_RESYNC_FAILED")
		return fmt.Errorf("order: resync payment: %w", err)
	}
	return nil
}
