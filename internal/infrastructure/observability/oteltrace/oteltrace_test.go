package oteltrace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestFromProviderStartsSpan(t *testing.T) {
	tr := FromProvider(noop.NewTracerProvider(), "shopsmart.test")

	ctx, span := tr.Start(context.Background(), "UC.CreateOrder", attribute.String("order.id", "o-1"))
	defer span.End()

	assert.NotNil(t, span)
	assert.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
}

func TestNewDefaultsName(t *testing.T) {
	_, span := New("").Start(context.Background(), "UC.ListOrders")
	defer span.End()

	assert.NotNil(t, span)
}
