package user

import (
	"context"
	"strings"
	"time"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

var (
	ErrNotFound           = apperr.New(apperr.ErrNotFound, "user not found")
	ErrExists             = apperr.New(apperr.ErrConflict, "User already exists")
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "Invalid email or password")
)

type User struct {
	ID           string    `json:"id"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail is the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func New(id, firstname, lastname, email, passwordHash string, role Role) (*User, error) {
	email = NormalizeEmail(email)
	switch {
	case strings.TrimSpace(firstname) == "":
		return nil, apperr.Invalid("firstname is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperr.Invalid("a valid email is required")
	case passwordHash == "":
		return nil, apperr.Invalid("password is required")
	case !role.Valid():
		return nil, apperr.Invalid("unknown role " + string(role))
	}
	return &User{
		ID:           id,
		Firstname:    strings.TrimSpace(firstname),
		Lastname:     strings.TrimSpace(lastname),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

type Repository interface {
	Insert(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
