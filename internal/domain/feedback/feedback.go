package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(id, name, email, message string) (*Feedback, error) {
	name, email, message = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(message)
	if name == "" || email == "" || message == "" {
		return nil, apperr.Invalid("name, email and message are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.Invalid("email is invalid")
	}
	return &Feedback{ID: id, Name: name, Email: email, Message: message, CreatedAt: time.Now().UTC()}, nil
}

type Repository interface {
	Insert(ctx context.Context, f *Feedback) error
	List(ctx context.Context) ([]*Feedback, error)
}
