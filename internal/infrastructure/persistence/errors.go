package persistence

import (
	"errors"
	"fmt"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

// mapErr translates docstore sentinels into the given domain errors.
// Anything else is a storage failure.
func mapErr(err, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return notFound
	case errors.Is(err, docstore.ErrConflict), errors.Is(err, docstore.ErrDuplicate):
		return conflict
	default:
		return fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
}
