// Package inventory keeps product stock in step with placed and cancelled
// orders.
package inventory

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

const (
	inventoryService    = "inventory-service"
	useCaseReserve      = "inventory.reserve"
	useCaseRelease      = "inventory.release"
	maxAttempts         = 3
	compensationTimeout = 2 * time.Second
)

type Service struct {
	products     domcatalog.ProductRepository
	reservations domcatalog.ReservationRepository
	inst         *application.Instrument
}

func NewService(products domcatalog.ProductRepository, reservations domcatalog.ReservationRepository, tel observability.Observability) *Service {
	return &Service{
		products:     products,
		reservations: reservations,
		inst:         application.NewInstrument(tel, inventoryService),
	}
}

// Reserve takes an order's quantity out of its product's stock and records
// the hold. An order that already holds stock is left alone.
func (s *Service) Reserve(ctx context.Context, orderID, productID string, qty int) (err error) {
	ctx, run := s.inst.Start(ctx, useCaseReserve, "ReserveStock",
		attribute.String("order.id", orderID),
		attribute.String("product.id", productID),
		attribute.Int("order.quantity", qty),
	)
	defer func() { run.End(err) }()
	run.Field("order_id", orderID)
	run.Field("product_id", productID)

	res, err := domcatalog.NewReservation(orderID, productID, qty)
	if err != nil {
		run.Fail("INVALID_RESERVATION")
		return err
	}
	switch _, err := s.reservations.Get(ctx, orderID); {
	case err == nil:
		run.Note("ALREADY_RESERVED")
		return nil
	case !errors.Is(err, domcatalog.ErrReservationNotFound):
		run.Fail("RESERVATION_LOAD_FAILED")
		return err
	}

	if err := s.adjust(ctx, run, productID, func(p *domcatalog.Product) error { return p.Deduct(qty) }); err != nil {
		return err
	}
	if err := s.reservations.Insert(ctx, res); err != nil {
		return s.undoDeduct(ctx, run, res, err)
	}
	return nil
}

// undoDeduct returns stock taken for a reservation that could not be
// recorded. Losing the insert to another delivery of the same event is not
// an error.
func (s *Service) undoDeduct(ctx context.Context, run *application.Run, res *domcatalog.Reservation, cause error) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := s.adjust(cctx, run, res.ProductID, func(p *domcatalog.Product) error { return p.Restock(res.Quantity) }); err != nil {
		run.Fail("STOCK_RESTORE_FAILED")
		return errors.Join(cause, err)
	}
	if errors.Is(cause, domcatalog.ErrReservationExists) {
		run.Note("ALREADY_RESERVED")
		return nil
	}
	run.Fail("RESERVATION_SAVE_FAILED")
	return cause
}

// Release puts back the stock an order holds. Orders without a hold, such
// as ones whose reservation failed or was already released, change nothing.
func (s *Service) Release(ctx context.Context, orderID string) (err error) {
	ctx, run := s.inst.Start(ctx, useCaseRelease, "ReleaseStock", attribute.String("order.id", orderID))
	defer func() { run.End(err) }()
	run.Field("order_id", orderID)

	res, err := s.reservations.Get(ctx, orderID)
	if errors.Is(err, domcatalog.ErrReservationNotFound) {
		run.Note("NOT_RESERVED")
		return nil
	}
	if err != nil {
		run.Fail("RESERVATION_LOAD_FAILED")
		return err
	}
	run.Field("product_id", res.ProductID)

	// The delete claims the hold; a concurrent release finds nothing.
	if err := s.reservations.Delete(ctx, orderID); err != nil {
		if errors.Is(err, domcatalog.ErrReservationNotFound) {
			run.Note("NOT_RESERVED")
			return nil
		}
		run.Fail("RESERVATION_DELETE_FAILED")
		return err
	}

	err = s.adjust(ctx, run, res.ProductID, func(p *domcatalog.Product) error { return p.Restock(res.Quantity) })
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domcatalog.ErrProductNotFound):
		run.Recover("PRODUCT_GONE")
		return nil
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if rerr := s.reservations.Insert(cctx, res); rerr != nil {
		run.Fail("RESERVATION_RESTORE_FAILED")
		return errors.Join(err, rerr)
	}
	return err
}

// adjust applies fn to a fresh copy of the product, retrying when another
// writer got there first.
func (s *Service) adjust(ctx context.Context, run *application.Run, productID string, fn func(*domcatalog.Product) error) error {
	for attempt := 1; ; attempt++ {
		p, err := s.products.Get(ctx, productID)
		if err != nil {
			run.Fail("PRODUCT_LOAD_FAILED")
			return err
		}
		if err := fn(p); err != nil {
			if errors.Is(err, domcatalog.ErrOutOfStock) {
				run.Fail("INSUFFICIENT_STOCK")
			} else {
				run.Fail("INVALID_QUANTITY")
			}
			return err
		}
		err = s.products.Update(ctx, p)
		if err == nil {
			run.Field("count_in_stock", p.CountInStock)
			return nil
		}
		if !errors.Is(err, apperr.ErrConflict) || attempt == maxAttempts {
			run.Fail("PRODUCT_SAVE_FAILED")
			return err
		}
		run.Note("RETRY_CONFLICT")
	}
}
