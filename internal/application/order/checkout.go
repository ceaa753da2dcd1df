package order

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domcart "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/cart"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

const useCaseCheckout = "order.checkout"

var ErrEmptyCart = apperr.Invalid("cart is empty")

// OrderCreator is what checkout needs from the workflow.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domorder.Order, error)
}

type CheckoutInput struct {
	Customer      domorder.Customer
	PaymentMethod string
}

type CheckoutResult struct {
	Orders []*domorder.Order `json:"orders"`
}

// CheckoutUseCase turns each cart line into an order. A line leaves the cart
// only after its order exists; the first failure stops the run.
type CheckoutUseCase struct {
	cart   domcart.Repository
	orders OrderCreator
	inst   *application.Instrument
}

var _ application.UseCase[CheckoutInput, *CheckoutResult] = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(cart domcart.Repository, orders OrderCreator, tel observability.Observability) *CheckoutUseCase {
	return &CheckoutUseCase{cart: cart, orders: orders, inst: application.NewInstrument(tel, orderService)}
}

// Execute returns the orders created so far alongside any error.
func (uc *CheckoutUseCase) Execute(ctx context.Context, cmd CheckoutInput) (_ *CheckoutResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseCheckout, "Checkout", attribute.String("order.user_id", cmd.Customer.UserID))
	defer func() { run.End(err) }()

	if cmd.Customer.UserID == "" {
		return nil, apperr.Invalid("user is required")
	}
	entries, err := uc.cart.ListByUser(ctx, cmd.Customer.UserID)
	if err != nil {
		run.Fail("CART_LOAD_FAILED")
		return nil, err
	}
	if len(entries) == 0 {
		run.Fail("CART_EMPTY")
		return nil, ErrEmptyCart
	}

	res := &CheckoutResult{Orders: make([]*domorder.Order, 0, len(entries))}
	for _, e := range entries {
		o, err := uc.orders.CreateOrder(ctx, CreateOrderInput{
			Customer:      cmd.Customer,
			ProductID:     e.ProductID,
			Quantity:      e.Quantity,
			PaymentMethod: cmd.PaymentMethod,
		})
		if err != nil {
			run.Fail("LINE_FAILED")
			run.Field("failed_product_id", e.ProductID)
			return res, fmt.Errorf("checkout: product %s: %w", e.ProductID, err)
		}
		res.Orders = append(res.Orders, o)

		if err := uc.cart.Remove(ctx, e.ID); err != nil {
			run.Fail("CART_REMOVE_FAILED")
			return res, fmt.Errorf("checkout: clear cart entry %s: %w", e.ID, err)
		}
	}
	run.Field("orders", len(res.Orders))
	return res, nil
}
