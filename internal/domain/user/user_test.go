package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

func TestNewNormalizesEmail(t *testing.T) {
	u, err := New("u-1", "Ada", "Lovelace", " Ada@Example.COM ", "hash", RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, Principal{UserID: "u-1", Role: RoleUser}, u.Principal())
}

func TestNewValidation(t *testing.T) {
	_, err := New("u-1", "", "L", "a@b.c", "hash", RoleUser)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = New("u-1", "Ada", "L", "nope", "hash", RoleUser)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = New("u-1", "Ada", "L", "a@b.c", "hash", Role("root"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestCapabilities(t *testing.T) {
	admin := Principal{UserID: "a", Role: RoleAdmin}
	customer := Principal{UserID: "u", Role: RoleUser}

	assert.True(t, admin.Can(CapOrdersManage))
	assert.True(t, admin.Can(CapOrdersPlace))
	assert.False(t, customer.Can(CapOrdersManage))
	assert.False(t, customer.Can(CapCatalogManage))
	assert.True(t, customer.Can(CapOrdersCancelOwn))
	assert.False(t, Principal{}.Can(CapOrdersPlace))

	assert.True(t, customer.Owns("u"))
	assert.False(t, customer.Owns("someone-else"))
	assert.False(t, Principal{}.Owns(""))
}
