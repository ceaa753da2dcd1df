package application

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	domoutbox "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/outbox"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability/logctx"
)

const (
	spanPrefix     = "UC."
	publishPeer    = "outbox"
	publishTimeout = 300 * time.Millisecond
)

// Instrument carries the RED metrics, tracer and base logger shared by the
// use cases of one service.
type Instrument struct {
	tel observability.Observability
	log observability.Logger

	reqCounter    observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram  observability.Histogram // usecase_duration_seconds{use_case}
	extCounter    observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram  observability.Histogram // external_request_duration_seconds{peer,endpoint}
	publishFailed observability.Counter   // order_event_publish_failed_total{event}
}

func NewInstrument(tel observability.Observability, service string) *Instrument {
	tel = observability.Or(tel)
	m := tel.Metrics()
	return &Instrument{
		tel:           tel,
		log:           tel.Logger().With(observability.F("service", service)),
		reqCounter:    m.Counter(observability.MUsecaseRequests),
		durHistogram:  m.Histogram(observability.MUsecaseDuration),
		extCounter:    m.Counter(observability.MExternalRequests),
		extHistogram:  m.Histogram(observability.MExternalRequestDuration),
		publishFailed: m.Counter(observability.MEventPublishFailed),
	}
}

func (i *Instrument) Logger() observability.Logger { return i.log }

func (i *Instrument) Metrics() observability.Metrics { return i.tel.Metrics() }

// Run tracks one use case execution from Start to End.
type Run struct {
	in      *Instrument
	ctx     context.Context
	span    trace.Span
	logger  observability.Logger
	useCase string
	start   time.Time

	outcome string
	status  string
	fields  []observability.Field
}

// Start opens the span "UC.<spanName>" and binds a use_case logger onto the
// returned context.
func (i *Instrument) Start(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Run) {
	attrs = append([]attribute.KeyValue{attribute.String("use_case", useCase)}, attrs...)
	ctx, span := i.tel.Tracer().Start(ctx, spanPrefix+spanName, attrs...)
	ctx, logger := logctx.Enrich(ctx, i.log, observability.F("use_case", useCase))

	return ctx, &Run{
		in:      i,
		ctx:     ctx,
		span:    span,
		logger:  logger,
		useCase: useCase,
		start:   time.Now(),
		outcome: "success",
		status:  "OK",
	}
}

// Fail marks the run as failed with a stable status code.
func (r *Run) Fail(status string) {
	r.outcome, r.status = "error", status
}

// Note records a status without failing the run.
func (r *Run) Note(status string) {
	r.status = status
}

// Recover clears an earlier failure the caller has handled.
func (r *Run) Recover(status string) {
	r.outcome, r.status = "success", status
}

func (r *Run) Field(k string, v any) {
	r.fields = append(r.fields, observability.F(k, v))
}

func (r *Run) Span() trace.Span { return r.span }

func (r *Run) UseCase() string { return r.useCase }

func (r *Run) Logger() observability.Logger { return r.logger }

// End closes the span, records metrics and logs use_case_done.
func (r *Run) End(err error) {
	lat := time.Since(r.start).Seconds()
	if err != nil && r.outcome == "success" {
		r.Fail(statusFor(err))
	}

	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, r.status)
	} else {
		r.span.SetStatus(codes.Ok, r.status)
	}
	r.span.End()

	r.in.reqCounter.Add(1,
		observability.L("use_case", r.useCase),
		observability.L("outcome", r.outcome),
	)
	r.in.durHistogram.Observe(lat, observability.L("use_case", r.useCase))

	fields := append([]observability.Field{
		observability.F("outcome", r.outcome),
		observability.F("status", r.status),
		observability.F("latency_seconds", lat),
	}, r.fields...)
	if sc := trace.SpanContextFromContext(r.ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}

	if internal(err) {
		r.logger.Error("use_case_done", fields...)
		return
	}
	r.logger.Info("use_case_done", fields...)
}

// Emit publishes e best-effort. A failure is logged, counted and noted on the
// run but never returned.
func (i *Instrument) Emit(ctx context.Context, run *Run, pub domoutbox.Publisher, e domoutbox.Event) {
	if pub == nil || e == nil {
		return
	}
	name := e.EventName()
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	start := time.Now()
	outcome := "success"
	err := pub.Publish(pubCtx, e)
	if err == nil && pubCtx.Err() != nil {
		err = pubCtx.Err()
	}
	if err != nil {
		outcome = "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "canceled"
		}
		i.publishFailed.Add(1, observability.L("event", name))
	}

	i.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", name),
		observability.L("outcome", outcome),
	)
	i.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", name),
	)

	if err != nil {
		if run != nil {
			run.Note("EVENT_PUBLISH_FAILED")
			run.span.RecordError(err)
		}
		logctx.FromOr(ctx, i.log).Warn("event_publish_failed",
			observability.F("event", name),
			observability.F("key", domoutbox.KeyOf(e)),
			observability.F("error", err.Error()),
		)
		return
	}
	if run != nil {
		run.span.AddEvent(name, trace.WithAttributes(attribute.String("event.key", domoutbox.KeyOf(e))))
	}
}

func statusFor(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, apperr.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, apperr.ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, apperr.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, apperr.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, apperr.ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, apperr.ErrInvariantViolation):
		return "INVARIANT_VIOLATION"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "CONTEXT_CANCELED"
	default:
		return "INTERNAL"
	}
}

func internal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, apperr.ErrInvariantViolation) || errors.Is(err, apperr.ErrStorage) || statusFor(err) == "INTERNAL"
}
