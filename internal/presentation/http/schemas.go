package httppresentation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
)

const schemaCreateOrder = `{
  "type": "object",
  "required": ["firstname", "productId"],
  "properties": {
    "firstname":     {"type": "string", "minLength": 1},
    "lastname":      {"type": "string"},
    "user":          {"type": "string"},
    "phone":         {"type": "string"},
    "address":       {"type": "string"},
    "productId":     {"type": "string", "minLength": 1},
    "quantity":      {"type": "integer", "minimum": 1},
    "paymentMethod": {"type": "string"}
  },
  "additionalProperties": false
}`

const schemaStatus = `{
  "type": "object",
  "required": ["status"],
  "properties": {
    "status": {"type": "string", "minLength": 1},
    "reason": {"type": "string"}
  },
  "additionalProperties": false
}`

const schemaCheckout = `{
  "type": "object",
  "required": ["firstname"],
  "properties": {
    "firstname":     {"type": "string", "minLength": 1},
    "lastname":      {"type": "string"},
    "phone":         {"type": "string"},
    "address":       {"type": "string"},
    "paymentMethod": {"type": "string"}
  },
  "additionalProperties": false
}`

const schemaRegister = `{
  "type": "object",
  "required": ["firstname", "email", "password"],
  "properties": {
    "firstname": {"type": "string", "minLength": 1},
    "lastname":  {"type": "string"},
    "username":  {"type": "string"},
    "email":     {"type": "string", "minLength": 3},
    "password":  {"type": "string", "minLength": 1}
  },
  "additionalProperties": false
}`

const schemaLogin = `{
  "type": "object",
  "required": ["email", "password"],
  "properties": {
    "email":    {"type": "string", "minLength": 1},
    "password": {"type": "string", "minLength": 1}
  },
  "additionalProperties": false
}`

var (
	createOrderSchema = mustSchema(schemaCreateOrder)
	statusSchema      = mustSchema(schemaStatus)
	checkoutSchema    = mustSchema(schemaCheckout)
	registerSchema    = mustSchema(schemaRegister)
	loginSchema       = mustSchema(schemaLogin)
)

// mustSchema compiles src once at package init.
func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Errorf("compile request schema: %w", err))
	}
	return schema
}

// validateJSONSchema reports every violation in one InvalidArgument error.
func validateJSONSchema(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperr.Invalid(fmt.Sprintf("malformed request body: %v", err))
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return apperr.Invalid("request does not conform to schema: " + strings.Join(msgs, "; "))
}
