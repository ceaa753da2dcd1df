package order

import "time"

// OrderCreatedEvent is emitted once an order and its payment are both stored.
type OrderCreatedEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	Price      float64   `json:"price"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (OrderCreatedEvent) EventName() string { return "order.created" }

func (e OrderCreatedEvent) EventKey() string { return e.OrderID }

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		Price:      o.Price,
		Status:     o.Status,
		OccurredAt: time.Now().UTC(),
	}
}

type OrderStatusChangedEvent struct {
	OrderID    string    `json:"orderId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	Override   bool      `json:"override,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (OrderStatusChangedEvent) EventName() string { return "order.status_changed" }

func (e OrderStatusChangedEvent) EventKey() string { return e.OrderID }

// Reinstated reports an override that moved the order out of Cancelled.
func (e OrderStatusChangedEvent) Reinstated() bool {
	return e.From == StatusCancelled && e.To != StatusCancelled
}

func NewOrderStatusChangedEvent(o *Order, from Status, override bool, reason string) OrderStatusChangedEvent {
	return OrderStatusChangedEvent{
		OrderID:    o.ID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		From:       from,
		To:         o.Status,
		Override:   override,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

type OrderCancelledEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	From       Status    `json:"from"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (OrderCancelledEvent) EventName() string { return "order.cancelled" }

func (e OrderCancelledEvent) EventKey() string { return e.OrderID }

func NewOrderCancelledEvent(o *Order, from Status) OrderCancelledEvent {
	return OrderCancelledEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		From:       from,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderReconciliationRequiredEvent is emitted when an order and its payment
// could not be kept in step and a compensating write also failed.
type OrderReconciliationRequiredEvent struct {
	OrderID    string    `json:"orderId"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (OrderReconciliationRequiredEvent) EventName() string { return "order.reconciliation_required" }

func (e OrderReconciliationRequiredEvent) EventKey() string { return e.OrderID }

func NewOrderReconciliationRequiredEvent(orderID, reason string) OrderReconciliationRequiredEvent {
	return OrderReconciliationRequiredEvent{
		OrderID:    orderID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

// EventNames lists every event this package emits.
func EventNames() []string {
	return []string{
		OrderCreatedEvent{}.EventName(),
		OrderStatusChangedEvent{}.EventName(),
		OrderCancelledEvent{}.EventName(),
		OrderReconciliationRequiredEvent{}.EventName(),
	}
}
