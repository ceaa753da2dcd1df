package httppresentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

func TestRequestSchemasAreCompiled(t *testing.T) {
	for name, schema := range map[string]any{
		"createOrder": createOrderSchema,
		"status":      statusSchema,
		"checkout":    checkoutSchema,
		"register":    registerSchema,
		"login":       loginSchema,
	} {
		assert.NotNil(t, schema, name)
	}
	assert.Panics(t, func() { mustSchema(`{"type": 12}`) })
}

func TestValidateJSONSchemaReusesCompiledSchema(t *testing.T) {
	for i := 0; i < 3; i++ {
		require.NoError(t, validateJSONSchema(loginSchema, []byte(`{"email":"ada@shop.test","password":"pw"}`)))
	}

	err := validateJSONSchema(loginSchema, []byte(`{"email":"","extra":1}`))
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	msg := apperr.Reason(err)
	assert.Contains(t, msg, "password")
	assert.Contains(t, msg, "extra")

	err = validateJSONSchema(statusSchema, []byte(`not json`))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
