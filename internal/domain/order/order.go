package order

import (
	"strings"
	"time"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

var (
	ErrNotFound          = apperr.New(apperr.ErrNotFound, "order not found")
	ErrProductNotFound   = apperr.New(apperr.ErrNotFound, "product not found")
	ErrConflict          = apperr.New(apperr.ErrConflict, "order was modified concurrently")
	ErrInvalidQuantity   = apperr.Invalid("quantity must be greater than zero")
	ErrInvalidPrice      = apperr.Invalid("price must be zero or greater")
	ErrInvalidTransition = apperr.ErrInvalidTransition
)

// Customer holds the identity fields copied onto an order.
type Customer struct {
	Firstname string
	Lastname  string
	UserID    string
	Phone     string
	Address   string
}

// FullName is the display name used on the paired payment.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.Firstname + " " + c.Lastname)
}

type Order struct {
	ID            string    `json:"id"`
	Firstname     string    `json:"firstname"`
	Lastname      string    `json:"lastname"`
	UserID        string    `json:"user"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	ProductID     string    `json:"productId"`
	ProductName   string    `json:"productName"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        Status    `json:"status"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// NeedsReconcile is set when a compensating write failed and the
	// paired payment may disagree with this order.
	NeedsReconcile  bool   `json:"needsReconcile,omitempty"`
	ReconcileReason string `json:"reconcileReason,omitempty"`
}

// New builds a Pending order. price is the snapshotted total, see Price.
func New(id string, customer Customer, productID, productName string, quantity int, price float64, paymentMethod string) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now().UTC()
	return &Order{
		ID:            id,
		Firstname:     customer.Firstname,
		Lastname:      customer.Lastname,
		UserID:        customer.UserID,
		Phone:         customer.Phone,
		Address:       customer.Address,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		Price:         price,
		PaymentMethod: paymentMethod,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (o *Order) Customer() Customer {
	return Customer{
		Firstname: o.Firstname,
		Lastname:  o.Lastname,
		UserID:    o.UserID,
		Phone:     o.Phone,
		Address:   o.Address,
	}
}

// TransitionTo moves the order along the transition table.
func (o *Order) TransitionTo(next Status) error {
	if !next.Valid() {
		return apperr.Invalid("unknown order status " + string(next))
	}
	if !o.Status.CanTransitionTo(next) {
		return apperr.New(ErrInvalidTransition, "cannot move order from "+string(o.Status)+" to "+string(next))
	}
	o.Status = next
	o.touch()
	return nil
}

// ForceStatus sets next without consulting the transition table.
func (o *Order) ForceStatus(next Status) error {
	if !next.Valid() {
		return apperr.Invalid("unknown order status " + string(next))
	}
	o.Status = next
	o.touch()
	return nil
}

func (o *Order) MarkForReconcile(reason string) {
	o.NeedsReconcile = true
	o.ReconcileReason = reason
	o.touch()
}

func (o *Order) ClearReconcile() {
	o.NeedsReconcile = false
	o.ReconcileReason = ""
	o.touch()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
