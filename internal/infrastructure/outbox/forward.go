package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domoutbox "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/outbox"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

// Message is an encoded event ready for an external broker.
type Message struct {
	Name string
	Key  string
	Body []byte
}

// Sink delivers messages to an external broker.
type Sink interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

type envelope struct {
	Event       string          `json:"event"`
	Key         string          `json:"key,omitempty"`
	PublishedAt time.Time       `json:"publishedAt"`
	Payload     json.RawMessage `json:"payload"`
}

// Encode wraps e in the JSON envelope used on every broker.
func Encode(e domoutbox.Event) (Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Message{}, fmt.Errorf("outbox: encode %s: %w", e.EventName(), err)
	}
	key := domoutbox.KeyOf(e)
	body, err := json.Marshal(envelope{
		Event:       e.EventName(),
		Key:         key,
		PublishedAt: time.Now().UTC(),
		Payload:     payload,
	})
	if err != nil {
		return Message{}, fmt.Errorf("outbox: encode envelope: %w", err)
	}
	return Message{Name: e.EventName(), Key: key, Body: body}, nil
}

// Forward subscribes a handler per name that mirrors the event to sink.
func Forward(sub domoutbox.Subscriber, sink Sink, peer string, tel observability.Observability, names ...string) {
	tel = observability.Or(tel)
	calls := tel.Metrics().Counter(observability.MExternalRequests)
	latency := tel.Metrics().Histogram(observability.MExternalRequestDuration)

	for _, name := range names {
		sub.Subscribe(name, func(ctx context.Context, e domoutbox.Event) error {
			msg, err := Encode(e)
			if err != nil {
				return err
			}
			start := time.Now()
			err = sink.Send(ctx, msg)
			outcome := "success"
			if err != nil {
				outcome = "error"
			}
			calls.Add(1, observability.L("peer", peer), observability.L("endpoint", msg.Name), observability.L("outcome", outcome))
			latency.Observe(time.Since(start).Seconds(), observability.L("peer", peer), observability.L("endpoint", msg.Name))
			if err != nil {
				return fmt.Errorf("outbox: forward %s to %s: %w", msg.Name, peer, err)
			}
			return nil
		})
	}
}
