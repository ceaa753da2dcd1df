// Package kafka mirrors outbox events onto a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/outbox"
)

var ErrNoBrokers = errors.New("kafka: no brokers configured")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes each message keyed by aggregate id so one order's events
// land on one partition.
type Publisher struct {
	w messageWriter
}

// ParseBrokers splits a comma separated broker list.
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	return &Publisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}, nil
}

func (p *Publisher) Send(ctx context.Context, msg outbox.Message) error {
	err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Body,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(msg.Name)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka: write %s: %w", msg.Name, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

var _ outbox.Sink = (*Publisher)(nil)
