package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

func validProduct() *Product {
	return &Product{Name: "Lamp", Description: "Desk lamp", Price: 20, Image: "lamp.png", Category: "Home", CountInStock: 4, Rating: 4.5}
}

func TestNewCategoryRequiresName(t *testing.T) {
	_, err := NewCategory("c-1", "  ")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	c, err := NewCategory("c-1", " Home ")
	require.NoError(t, err)
	assert.Equal(t, "Home", c.Name)
}

func TestProductValidate(t *testing.T) {
	require.NoError(t, validProduct().Validate())

	p := validProduct()
	p.Price = -1
	assert.ErrorIs(t, p.Validate(), apperr.ErrInvalidArgument)

	p = validProduct()
	p.Image = ""
	assert.EqualError(t, p.Validate(), "image is required")
}

func TestProductPatch(t *testing.T) {
	p := validProduct()
	price := 25.5
	name := "Big Lamp"

	require.NoError(t, ProductPatch{Price: &price, Name: &name}.Apply(p))
	assert.Equal(t, 25.5, p.Price)
	assert.Equal(t, "Big Lamp", p.Name)
	assert.Equal(t, "Desk lamp", p.Description)

	bad := -3
	assert.Error(t, ProductPatch{CountInStock: &bad}.Apply(p))
}

func TestProductStock(t *testing.T) {
	p := validProduct()
	p.CountInStock = 3

	require.NoError(t, p.Deduct(2))
	assert.Equal(t, 1, p.CountInStock)

	assert.ErrorIs(t, p.Deduct(2), ErrOutOfStock)
	assert.Equal(t, 1, p.CountInStock, "a failed deduction leaves stock alone")

	require.NoError(t, p.Restock(4))
	assert.Equal(t, 5, p.CountInStock)

	assert.ErrorIs(t, p.Deduct(0), apperr.ErrInvalidArgument)
	assert.ErrorIs(t, p.Restock(-1), apperr.ErrInvalidArgument)
}

func TestNewReservation(t *testing.T) {
	r, err := NewReservation("o-1", "p-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "o-1", r.OrderID)
	assert.Equal(t, 2, r.Quantity)
	assert.False(t, r.CreatedAt.IsZero())

	for _, bad := range [][3]any{{"", "p-1", 1}, {"o-1", " ", 1}, {"o-1", "p-1", 0}} {
		_, err := NewReservation(bad[0].(string), bad[1].(string), bad[2].(int))
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument, "%v", bad)
	}
}
