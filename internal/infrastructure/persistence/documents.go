package persistence

import (
	"time"

	domcart "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/cart"
	domcatalog "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/catalog"
	domfeedback "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/feedback"
	domorder "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/order"
	dompayment "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/payment"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
)

// Collection names.
const (
	CollectionOrders     = "orders"
	CollectionPayments   = "payments"
	CollectionCategories = "categories"
	CollectionProducts   = "products"
	CollectionCarts      = "addtocarts"
	CollectionFeedback   = "feedbacks"
	CollectionUsers      = "users"
	CollectionReserved   = "reservations"
)

// Stored field names used in filters.
const (
	fieldUser      = "user"
	fieldOrder     = "order"
	fieldCategory  = "category"
	fieldEmail     = "email"
	fieldUserID    = "userId"
	fieldProductID = "productId"
)

// UniqueKey names a field that must hold distinct values across a
// collection.
type UniqueKey struct {
	Collection string
	Field      string
}

// UniqueKeys lists the constraints backends with index support should
// enforce: one payment per order, one account per email, one category per
// name.
func UniqueKeys() []UniqueKey {
	return []UniqueKey{
		{Collection: CollectionPayments, Field: fieldOrder},
		{Collection: CollectionUsers, Field: fieldEmail},
		{Collection: CollectionCategories, Field: fieldCategory},
	}
}

// Document types carry matching json and bson names so every backend
// filters on the same keys.

type orderDocument struct {
	ID              string    `json:"id" bson:"_id"`
	Firstname       string    `json:"firstname" bson:"firstname"`
	Lastname        string    `json:"lastname" bson:"lastname"`
	User            string    `json:"user" bson:"user"`
	Phone           string    `json:"phone" bson:"phone"`
	Address         string    `json:"address" bson:"address"`
	ProductID       string    `json:"productId" bson:"productId"`
	ProductName     string    `json:"productName" bson:"productName"`
	Quantity        int       `json:"quantity" bson:"quantity"`
	Price           float64   `json:"price" bson:"price"`
	PaymentMethod   string    `json:"paymentMethod" bson:"paymentMethod"`
	Status          string    `json:"status" bson:"status"`
	NeedsReconcile  bool      `json:"needsReconcile" bson:"needsReconcile"`
	ReconcileReason string    `json:"reconcileReason,omitempty" bson:"reconcileReason,omitempty"`
	Version         int64     `json:"version" bson:"version"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

func orderToDocument(o *domorder.Order) orderDocument {
	return orderDocument{
		ID:              o.ID,
		Firstname:       o.Firstname,
		Lastname:        o.Lastname,
		User:            o.UserID,
		Phone:           o.Phone,
		Address:         o.Address,
		ProductID:       o.ProductID,
		ProductName:     o.ProductName,
		Quantity:        o.Quantity,
		Price:           o.Price,
		PaymentMethod:   o.PaymentMethod,
		Status:          string(o.Status),
		NeedsReconcile:  o.NeedsReconcile,
		ReconcileReason: o.ReconcileReason,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (d orderDocument) toDomain() *domorder.Order {
	return &domorder.Order{
		ID:              d.ID,
		Firstname:       d.Firstname,
		Lastname:        d.Lastname,
		UserID:          d.User,
		Phone:           d.Phone,
		Address:         d.Address,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		Quantity:        d.Quantity,
		Price:           d.Price,
		PaymentMethod:   d.PaymentMethod,
		Status:          domorder.Status(d.Status),
		NeedsReconcile:  d.NeedsReconcile,
		ReconcileReason: d.ReconcileReason,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type paymentDocument struct {
	ID             string    `json:"id" bson:"_id"`
	User           string    `json:"user" bson:"user"`
	Name           string    `json:"name" bson:"name"`
	Order          string    `json:"order" bson:"order"`
	Amount         float64   `json:"amount" bson:"amount"`
	DeliveryStatus string    `json:"deliveryStatus" bson:"deliveryStatus"`
	PaymentMethod  string    `json:"paymentMethod" bson:"paymentMethod"`
	Status         string    `json:"status" bson:"status"`
	Version        int64     `json:"version" bson:"version"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

func paymentToDocument(p *dompayment.Payment) paymentDocument {
	return paymentDocument{
		ID:             p.ID,
		User:           p.UserID,
		Name:           p.Name,
		Order:          p.OrderID,
		Amount:         p.Amount,
		DeliveryStatus: string(p.DeliveryStatus),
		PaymentMethod:  p.PaymentMethod,
		Status:         string(p.Status),
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d paymentDocument) toDomain() *dompayment.Payment {
	return &dompayment.Payment{
		ID:             d.ID,
		UserID:         d.User,
		Name:           d.Name,
		OrderID:        d.Order,
		Amount:         d.Amount,
		DeliveryStatus: domorder.Status(d.DeliveryStatus),
		PaymentMethod:  d.PaymentMethod,
		Status:         dompayment.Status(d.Status),
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type categoryDocument struct {
	ID       string `json:"id" bson:"_id"`
	Category string `json:"category" bson:"category"`
	Version  int64  `json:"version" bson:"version"`
}

type productDocument struct {
	ID           string  `json:"id" bson:"_id"`
	ProductName  string  `json:"productname" bson:"productname"`
	Description  string  `json:"description" bson:"description"`
	Price        float64 `json:"price" bson:"price"`
	Image        string  `json:"image" bson:"image"`
	Category     string  `json:"category" bson:"category"`
	CountInStock int     `json:"countInStock" bson:"countInStock"`
	Rating       float64 `json:"rating" bson:"rating"`
	Version      int64   `json:"version" bson:"version"`
}

func productToDocument(p *domcatalog.Product) productDocument {
	return productDocument{
		ID:           p.ID,
		ProductName:  p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Image:        p.Image,
		Category:     p.Category,
		CountInStock: p.CountInStock,
		Rating:       p.Rating,
		Version:      p.Version,
	}
}

func (d productDocument) toDomain() *domcatalog.Product {
	return &domcatalog.Product{
		ID:           d.ID,
		Name:         d.ProductName,
		Description:  d.Description,
		Price:        d.Price,
		Image:        d.Image,
		Category:     d.Category,
		CountInStock: d.CountInStock,
		Rating:       d.Rating,
		Version:      d.Version,
	}
}

type reservationDocument struct {
	OrderID   string    `json:"id" bson:"_id"`
	ProductID string    `json:"productId" bson:"productId"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Version   int64     `json:"version" bson:"version"`
}

type cartDocument struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	ProductID   string    `json:"productId" bson:"productId"`
	ProductName string    `json:"productName" bson:"productName"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	AddedAt     time.Time `json:"addedAt" bson:"addedAt"`
	Version     int64     `json:"version" bson:"version"`
}

func cartToDocument(e *domcart.Entry) cartDocument {
	return cartDocument{
		ID:          e.ID,
		UserID:      e.UserID,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		Quantity:    e.Quantity,
		AddedAt:     e.AddedAt,
		Version:     1,
	}
}

func (d cartDocument) toDomain() *domcart.Entry {
	return &domcart.Entry{
		ID:          d.ID,
		UserID:      d.UserID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Quantity:    d.Quantity,
		AddedAt:     d.AddedAt,
	}
}

type feedbackDocument struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Version   int64     `json:"version" bson:"version"`
}

type userDocument struct {
	ID        string    `json:"id" bson:"_id"`
	Firstname string    `json:"firstname" bson:"firstname"`
	Lastname  string    `json:"lastname" bson:"lastname"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"password" bson:"password"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Version   int64     `json:"version" bson:"version"`
}

func userToDocument(u *domuser.User) userDocument {
	return userDocument{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		Version:   1,
	}
}

func (d userDocument) toDomain() *domuser.User {
	return &domuser.User{
		ID:           d.ID,
		Firstname:    d.Firstname,
		Lastname:     d.Lastname,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         domuser.Role(d.Role),
		CreatedAt:    d.CreatedAt,
	}
}

func feedbackToDocument(f *domfeedback.Feedback) feedbackDocument {
	return feedbackDocument{ID: f.ID, Name: f.Name, Email: f.Email, Message: f.Message, CreatedAt: f.CreatedAt, Version: 1}
}

func (d feedbackDocument) toDomain() *domfeedback.Feedback {
	return &domfeedback.Feedback{ID: d.ID, Name: d.Name, Email: d.Email, Message: d.Message, CreatedAt: d.CreatedAt}
}
