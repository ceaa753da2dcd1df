// Package order runs the order/payment workflow. Every mutation keeps the
// pair invariant: one payment per order, payment.deliveryStatus equal to
// order.status and payment.status projected from it.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	domoutbox "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/outbox"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

const (
	orderService        = "order-service"
	defaultMaxAttempts  = 3
	compensationTimeout = 5 * time.Second
)

const (
	useCaseCreate    = "order.create"
	useCaseList      = "order.list"
	useCaseListUser  = "order.list_for_user"
	useCaseGet       = "order.get"
	useCaseSetStatus = "order.set_status"
	useCaseCancel    = "order.cancel"
	useCaseOverride  = "order.override_status"
	useCaseReconcile = "order.reconcile"
)

var ErrNoOrdersForUser = apperr.New(apperr.ErrNotFound, "No orders found for this user")

type Service struct {
	orders   domorder.Repository
	payments dompayment.Repository
	products ProductFinder
	ids      application.IDGenerator

	tx                   TxRunner
	publisher            domoutbox.Publisher
	locker               Locker
	allowCancelDelivered bool
	maxAttempts          int

	inst       *application.Instrument
	violations observability.Counter // order_invariant_violations_total{use_case}
}

type Option func(*Service)

// WithTxRunner makes create and status changes atomic, replacing the
// compensating writes.
func WithTxRunner(tx TxRunner) Option { return func(s *Service) { s.tx = tx } }

func WithPublisher(p domoutbox.Publisher) Option { return func(s *Service) { s.publisher = p } }

func WithLocker(l Locker) Option { return func(s *Service) { s.locker = l } }

// WithCancelDelivered lets cancelOrder move a Delivered order to Cancelled.
func WithCancelDelivered(allow bool) Option {
	return func(s *Service) { s.allowCancelDelivered = allow }
}

func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func NewService(
	orders domorder.Repository,
	payments dompayment.Repository,
	products ProductFinder,
	ids application.IDGenerator,
	tel observability.Observability,
	opts ...Option,
) *Service {
	inst := application.NewInstrument(tel, orderService)
	s := &Service{
		orders:      orders,
		payments:    payments,
		products:    products,
		ids:         ids,
		locker:      noLocker{},
		maxAttempts: defaultMaxAttempts,
		inst:        inst,
		violations:  inst.Metrics().Counter(observability.MInvariantViolations),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateOrderInput struct {
	Customer      domorder.Customer
	ProductID     string
	Quantity      int
	PaymentMethod string
}

func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (_ *domorder.Order, err error) {
	ctx, run := s.inst.Start(ctx, useCaseCreate, "CreateOrder",
		attribute.String("order.user_id", in.Customer.UserID),
		attribute.String("order.product_id", in.ProductID),
	)
	defer func() { run.End(err) }()

	switch {
	case in.Customer.UserID == "":
		run.Fail("USER_REQUIRED")
		return nil, apperr.Invalid("user is required")
	case in.ProductID == "":
		run.Fail("PRODUCT_ID_REQUIRED")
		return nil, apperr.Invalid("productId is required")
	case in.Quantity <= 0:
		run.Fail("QUANTITY_INVALID")
		return nil, domorder.ErrInvalidQuantity
	case in.PaymentMethod == "":
		run.Fail("PAYMENT_METHOD_REQUIRED")
		return nil, apperr.Invalid("paymentMethod is required")
	}

	product, err := s.products.FindProduct(ctx, in.ProductID)
	if err != nil {
		run.Fail("PRODUCT_LOOKUP_FAILED")
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, domorder.ErrProductNotFound
		}
		return nil, fmt.Errorf("order: find product: %w", err)
	}

	o, err := domorder.New(s.ids.NewID(), in.Customer, product.ID, product.Name, in.Quantity,
		domorder.Price(product.Price, in.Quantity), in.PaymentMethod)
	if err != nil {
		run.Fail("DOMAIN_CONSTRUCTION_FAILED")
		return nil, err
	}
	p := dompayment.NewForOrder(o)
	run.Field("order_id", o.ID)

	if s.tx != nil {
		err = s.tx.RunInTx(ctx, func(ctx context.Context, orders domorder.Repository, payments dompayment.Repository) error {
			if err := orders.Insert(ctx, o); err != nil {
				return err
			}
			return payments.Insert(ctx, p)
		})
		if err != nil {
			run.Fail("TX_INSERT_FAILED")
			return nil, fmt.Errorf("order: create: %w", err)
		}
	} else if err := s.insertPair(ctx, run, o, p); err != nil {
		return nil, err
	}

	run.Span().SetAttributes(attribute.String("order.id", o.ID), attribute.String("order.status", string(o.Status)))
	s.inst.Emit(ctx, run, s.publisher, domorder.NewOrderCreatedEvent(o))
	return o, nil
}

// insertPair writes the order then its payment. A failed payment insert
// deletes the order again.
func (s *Service) insertPair(ctx context.Context, run *application.Run, o *domorder.Order, p *dompayment.Payment) error {
	if err := s.orders.Insert(ctx, o); err != nil {
		run.Fail("ORDER_INSERT_FAILED")
		return fmt.Errorf("order: insert: %w", err)
	}
	perr := s.payments.Insert(ctx, p)
	if perr == nil {
		return nil
	}

	run.Fail("PAYMENT_INSERT_FAILED")
	cctx, cancel := compensationContext(ctx)
	defer cancel()
	if derr := s.orders.Delete(cctx, o.ID); derr != nil {
		run.Fail("COMPENSATION_FAILED")
		s.requireReconcile(cctx, run, o.ID, "payment insert failed and order delete failed")
		return fmt.Errorf("%w: order %s stored without payment: %w", apperr.ErrInvariantViolation, o.ID, errors.Join(perr, derr))
	}
	run.Logger().Warn("order_insert_compensated", observability.F("order_id", o.ID), observability.F("error", perr))
	return fmt.Errorf("%w: payment insert failed, order removed: %w", apperr.ErrInvariantViolation, perr)
}

func (s *Service) ListOrders(ctx context.Context) (_ []*domorder.Order, err error) {
	ctx, run := s.inst.Start(ctx, useCaseList, "ListOrders")
	defer func() { run.End(err) }()

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	run.Field("count", len(orders))
	return orders, nil
}

// OrdersForUser returns the user's orders; none at all is ErrNoOrdersForUser.
func (s *Service) OrdersForUser(ctx context.Context, userID string) (_ []*domorder.Order, err error) {
	ctx, run := s.inst.Start(ctx, useCaseListUser, "OrdersForUser", attribute.String("order.user_id", userID))
	defer func() { run.End(err) }()

	if userID == "" {
		return nil, apperr.Invalid("userId is required")
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNoOrdersForUser
	}
	run.Field("count", len(orders))
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (_ *domorder.Order, err error) {
	ctx, run := s.inst.Start(ctx, useCaseGet, "GetOrder", attribute.String("order.id", id))
	defer func() { run.End(err) }()

	if id == "" {
		return nil, apperr.Invalid("order id is required")
	}
	return s.orders.Get(ctx, id)
}

// SetOrderStatus moves the order along the transition table.
func (s *Service) SetOrderStatus(ctx context.Context, id string, status domorder.Status) (_ *domorder.Order, err error) {
	ctx, run := s.inst.Start(ctx, useCaseSetStatus, "SetOrderStatus",
		attribute.String("order.id", id), attribute.String("order.target_status", string(status)))
	defer func() { run.End(err) }()

	return s.changeStatus(ctx, run, id, statusChange{target: status})
}

// CancelOrder is idempotent on an already Cancelled order.
func (s *Service) CancelOrder(ctx context.Context, id string) (_ *domorder.Order, err error) {
	ctx, run := s.inst.Start(ctx, useCaseCancel, "CancelOrder", attribute.String("order.id", id))
	defer func() { run.End(err) }()

	return s.changeStatus(ctx, run, id, statusChange{target: domorder.StatusCancelled, cancel: true})
}

// OverrideOrderStatus bypasses the transition table. reason is required and
// travels on the emitted event.
func (s *Service) OverrideOrderStatus(ctx context.Context, id string, status domorder.Status, reason string) (_ *domorder.Order, err error) {
	ctx, run := s.inst.Start(ctx, useCaseOverride, "OverrideOrderStatus",
		attribute.String("order.id", id), attribute.String("order.target_status", string(status)))
	defer func() { run.End(err) }()

	if reason == "" {
		return nil, apperr.Invalid("reason is required")
	}
	return s.changeStatus(ctx, run, id, statusChange{target: status, override: true, reason: reason})
}

func (s *Service) requireReconcile(ctx context.Context, run *application.Run, orderID, reason string) {
	s.violations.Add(1, observability.L("use_case", run.UseCase()))
	logger := run.Logger().With(observability.F("order_id", orderID))

	if o, err := s.orders.Get(ctx, orderID); err == nil {
		o.MarkForReconcile(reason)
		if err := s.orders.Update(ctx, o); err != nil {
			logger.Error("order_reconcile_flag_failed", observability.F("error", err))
		}
	} else {
		logger.Error("order_reconcile_flag_failed", observability.F("error", err))
	}

	logger.Error("order_payment_out_of_sync", observability.F("reason", reason))
	s.inst.Emit(ctx, run, s.publisher, domorder.NewOrderReconciliationRequiredEvent(orderID, reason))
}

// withRetry serializes on the order id and reruns fn on version conflicts.
func (s *Service) withRetry(ctx context.Context, run *application.Run, orderID string, fn func(ctx context.Context) error) error {
	unlock := s.locker.Lock(orderID)
	defer unlock()

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn(ctx)
		if err == nil || !errors.Is(err, apperr.ErrConflict) {
			return err
		}
		run.Field("conflict_attempt", attempt)
	}
	return err
}

func compensationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
}

type noLocker struct{}

func (noLocker) Lock(string) func() { return func() {} }
