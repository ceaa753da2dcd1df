package inventory

import (
	"context"
	"fmt"

	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	domoutbox "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/outbox"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability/logctx"
)

const workerService = "inventory_worker"

type Stock interface {
	Reserve(ctx context.Context, orderID, productID string, qty int) error
	Release(ctx context.Context, orderID string) error
}

// Worker reserves stock on order.created, releases it on order.cancelled
// and reserves again when an override brings a cancelled order back.
type Worker struct {
	stock      Stock
	subscriber domoutbox.Subscriber
	log        observability.Logger
}

func NewWorker(stock Stock, subscriber domoutbox.Subscriber, tel observability.Observability) *Worker {
	return &Worker{
		stock:      stock,
		subscriber: subscriber,
		log:        observability.Or(tel).Logger().With(observability.F("service", workerService)),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil || w.stock == nil {
		return
	}
	w.subscriber.Subscribe(domorder.OrderCreatedEvent{}.EventName(), w.handleOrderCreated)
	w.subscriber.Subscribe(domorder.OrderCancelledEvent{}.EventName(), w.handleOrderCancelled)
	w.subscriber.Subscribe(domorder.OrderStatusChangedEvent{}.EventName(), w.handleStatusChanged)
}

func (w *Worker) handleOrderCreated(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domorder.OrderCreatedEvent)
	if !ok {
		return nil
	}
	return w.reserve(ctx, evt.OrderID, evt.ProductID, evt.Quantity)
}

func (w *Worker) handleStatusChanged(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domorder.OrderStatusChangedEvent)
	if !ok || !evt.Reinstated() || evt.ProductID == "" || evt.Quantity <= 0 {
		return nil
	}
	return w.reserve(ctx, evt.OrderID, evt.ProductID, evt.Quantity)
}

func (w *Worker) reserve(ctx context.Context, orderID, productID string, qty int) error {
	if err := w.stock.Reserve(ctx, orderID, productID, qty); err != nil {
		logctx.FromOr(ctx, w.log).Warn("inventory_reservation_failed",
			observability.F("order_id", orderID),
			observability.F("product_id", productID),
			observability.F("error", err.Error()),
		)
		return fmt.Errorf("worker: reserve stock for order %s: %w", orderID, err)
	}
	return nil
}

// handleOrderCancelled releases whatever the order holds. The amount comes
// from the reservation, not the event.
func (w *Worker) handleOrderCancelled(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domorder.OrderCancelledEvent)
	if !ok || evt.OrderID == "" {
		return nil
	}
	if err := w.stock.Release(ctx, evt.OrderID); err != nil {
		return fmt.Errorf("worker: release stock for order %s: %w", evt.OrderID, err)
	}
	return nil
}
