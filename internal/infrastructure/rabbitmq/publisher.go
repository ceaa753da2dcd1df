// Package rabbitmq mirrors outbox events onto an AMQP topic exchange.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/outbox"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher routes each message by event name on a durable topic exchange.
type Publisher struct {
	ch       channel
	conn     *amqp.Connection
	exchange string
}

// Dial connects, opens a channel and declares exchange.
func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		return nil, errors.New("rabbitmq: exchange is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange %s: %w", exchange, err)
	}
	return &Publisher{ch: ch, conn: conn, exchange: exchange}, nil
}

func (p *Publisher) Send(ctx context.Context, msg outbox.Message) error {
	err := p.ch.PublishWithContext(ctx, p.exchange, msg.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.Key,
		Timestamp:    time.Now().UTC(),
		Type:         msg.Name,
		Body:         msg.Body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", msg.Name, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

var _ outbox.Sink = (*Publisher)(nil)
