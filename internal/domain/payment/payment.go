package payment

import (
	"time"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
)

var (
	ErrNotFound = apperr.New(apperr.ErrNotFound, "payment not found")
	ErrConflict = apperr.New(apperr.ErrConflict, "payment was modified concurrently")
)

type Status string

const (
	StatusPending Status = "Pending"
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// ProjectStatus derives the settlement status from an order status.
func ProjectStatus(s order.Status) Status {
	switch s {
	case order.StatusDelivered:
		return StatusSuccess
	case order.StatusCancelled:
		return StatusFailed
	default:
		return StatusPending
	}
}

// IDFor returns the payment id paired with orderID. Deriving it keeps at
// most one payment per order at the storage level.
func IDFor(orderID string) string {
	return "pay-" + orderID
}

type Payment struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user"`
	Name           string       `json:"name"`
	OrderID        string       `json:"order"`
	Amount         float64      `json:"amount"`
	DeliveryStatus order.Status `json:"deliveryStatus"`
	PaymentMethod  string       `json:"paymentMethod"`
	Status         Status       `json:"status"`
	Version        int64        `json:"version"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// NewForOrder builds the payment paired with o.
func NewForOrder(o *order.Order) *Payment {
	now := time.Now().UTC()
	return &Payment{
		ID:             IDFor(o.ID),
		UserID:         o.UserID,
		Name:           o.Customer().FullName(),
		OrderID:        o.ID,
		Amount:         o.Price,
		DeliveryStatus: o.Status,
		PaymentMethod:  o.PaymentMethod,
		Status:         ProjectStatus(o.Status),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Drift lists the fields where p disagrees with o.
func (p *Payment) Drift(o *order.Order) []string {
	var fields []string
	if p.OrderID != o.ID {
		fields = append(fields, "order")
	}
	if p.DeliveryStatus != o.Status {
		fields = append(fields, "deliveryStatus")
	}
	if p.Status != ProjectStatus(o.Status) {
		fields = append(fields, "status")
	}
	if p.Amount != o.Price {
		fields = append(fields, "amount")
	}
	return fields
}

// SyncWith copies o's status onto p and reports whether anything changed.
func (p *Payment) SyncWith(o *order.Order) bool {
	if len(p.Drift(o)) == 0 {
		return false
	}
	p.OrderID = o.ID
	p.DeliveryStatus = o.Status
	p.Status = ProjectStatus(o.Status)
	p.Amount = o.Price
	p.UpdatedAt = time.Now().UTC()
	return true
}

func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
