package workerpresentation

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domoutbox "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/outbox"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability/logctx"
)

// WithEventContext injects a request-scoped logger for background executions.
// Fields: event_id (generated if empty), trace_id/span_id when valid, plus
// caller-provided low-cardinality attributes.
func WithEventContext(
	ctx context.Context,
	base observability.Logger,
	sc trace.SpanContext,
	attrs map[string]string,
) context.Context {
	if base == nil {
		base = observability.NopLogger()
	}

	fields := make([]observability.Field, 0, len(attrs)+3)

	evtID := attrs["event_id"]
	if evtID == "" {
		evtID = uuid.NewString()
	}
	fields = append(fields, observability.F("event_id", evtID))

	if sc.TraceID().IsValid() {
		fields = append(fields, observability.F("trace_id", sc.TraceID().String()))
	}
	if sc.SpanID().IsValid() {
		fields = append(fields, observability.F("span_id", sc.SpanID().String()))
	}

	for k, v := range attrs {
		if k == "event_id" || v == "" {
			continue
		}
		fields = append(fields, observability.F(k, v))
	}

	return logctx.With(ctx, base.With(fields...))
}

// Subscriber decorates handlers with a span and an event-scoped logger
// before they reach the underlying subscriber.
type Subscriber struct {
	next domoutbox.Subscriber
	tel  observability.Observability
}

func Instrument(next domoutbox.Subscriber, tel observability.Observability) *Subscriber {
	return &Subscriber{next: next, tel: observability.Or(tel)}
}

func (s *Subscriber) Subscribe(eventName string, h domoutbox.Handler) {
	s.next.Subscribe(eventName, func(ctx context.Context, e domoutbox.Event) error {
		ctx, span := s.tel.Tracer().Start(ctx, "Event."+eventName,
			attribute.String("event", eventName),
		)
		defer span.End()

		attrs := map[string]string{"event": eventName}
		if key := domoutbox.KeyOf(e); key != "" {
			attrs["aggregate_id"] = key
		}
		ctx = WithEventContext(ctx, logctx.FromOr(ctx, s.tel.Logger()), span.SpanContext(), attrs)

		err := h(ctx, e)
		if err != nil {
			span.RecordError(err)
		}
		return err
	})
}
