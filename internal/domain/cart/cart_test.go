package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

func TestNewEntryDefaultsQuantity(t *testing.T) {
	e, err := NewEntry("c-1", "u-1", "p-1", "Lamp", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Quantity)
}

func TestNewEntryValidation(t *testing.T) {
	_, err := NewEntry("c-1", "", "p-1", "Lamp", 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = NewEntry("c-1", "u-1", "", "Lamp", 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = NewEntry("c-1", "u-1", "p-1", "Lamp", -2)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
