package order

import (
	"context"
	"fmt"

	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	domoutbox "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/outbox"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability/logctx"
)

const workerService = "order-reconcile-worker"

// Reconciler is the slice of Service the worker drives.
type Reconciler interface {
	Reconcile(ctx context.Context, id string) (*ReconcileResult, error)
}

// Worker repairs pairs flagged by order.reconciliation_required.
type Worker struct {
	svc        Reconciler
	subscriber domoutbox.Subscriber
	log        observability.Logger
}

func NewWorker(svc Reconciler, subscriber domoutbox.Subscriber, tel observability.Observability) *Worker {
	return &Worker{
		svc:        svc,
		subscriber: subscriber,
		log:        observability.Or(tel).Logger().With(observability.F("service", workerService)),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil || w.svc == nil {
		return
	}
	w.subscriber.Subscribe(domorder.OrderReconciliationRequiredEvent{}.EventName(), w.handleReconciliationRequired)
}

func (w *Worker) handleReconciliationRequired(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domorder.OrderReconciliationRequiredEvent)
	if !ok {
		return nil
	}
	logger := logctx.FromOr(ctx, w.log).With(observability.F("order_id", evt.OrderID))

	res, err := w.svc.Reconcile(ctx, evt.OrderID)
	if err != nil {
		return fmt.Errorf("worker: reconcile order %s: %w", evt.OrderID, err)
	}
	logger.Info("order_reconciled",
		observability.F("action", string(res.Action)),
		observability.F("repaired", res.Repaired),
		observability.F("trigger_reason", evt.Reason),
	)
	return nil
}
