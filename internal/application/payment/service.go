// Package payment is the read side of payments. Payments change only through
// the order workflow.
package payment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

const (
	paymentService      = "payment-service"
	useCasePaymentList  = "payment.list"
	useCasePaymentOrder = "payment.for_order"
)

type Service struct {
	payments dompayment.Repository
	inst     *application.Instrument
}

func NewService(payments dompayment.Repository, tel observability.Observability) *Service {
	return &Service{payments: payments, inst: application.NewInstrument(tel, paymentService)}
}

func (s *Service) List(ctx context.Context) (_ []*dompayment.Payment, err error) {
	ctx, run := s.inst.Start(ctx, useCasePaymentList, "ListPayments")
	defer func() { run.End(err) }()

	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	run.Field("count", len(payments))
	return payments, nil
}

func (s *Service) ForOrder(ctx context.Context, orderID string) (_ *dompayment.Payment, err error) {
	ctx, run := s.inst.Start(ctx, useCasePaymentOrder, "PaymentForOrder", attribute.String("order.id", orderID))
	defer func() { run.End(err) }()

	if orderID == "" {
		return nil, apperr.Invalid("order id is required")
	}
	return s.payments.GetByOrder(ctx, orderID)
}
