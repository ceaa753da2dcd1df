package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
)

// BcryptHasher stores passwords as bcrypt hashes.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("security: hash password: %w", err)
	}
	return string(b), nil
}

// Compare returns domuser.ErrInvalidCredentials on mismatch.
func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrHashTooShort):
		return domuser.ErrInvalidCredentials
	default:
		return fmt.Errorf("security: compare password: %w", err)
	}
}
