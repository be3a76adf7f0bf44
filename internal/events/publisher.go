// Package events publishes appointment lifecycle events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
)

type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                                { return nil }

type Rabbit struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbit(url, exchange string) (*Rabbit, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Rabbit{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Rabbit) Publish(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
}

func (p *Rabbit) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Message is the JSON body of a published event.
type Message struct {
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID *uint     `json:"entity_id,omitempty"`
	UserID   *uint     `json:"user_id,omitempty"`
	Data     any       `json:"data,omitempty"`
	At       time.Time `json:"at"`
}

// RoutingKey turns "appointment_status_changed" into
// "appointment.status_changed".
func RoutingKey(action string) string {
	return strings.Replace(action, "_", ".", 1)
}

// Sink forwards audit events to a Publisher.
type Sink struct {
	pub Publisher
}

func NewSink(pub Publisher) *Sink {
	return &Sink{pub: pub}
}

func (s *Sink) Record(ctx context.Context, ev audit.Event) error {
	return s.pub.Publish(ctx, RoutingKey(ev.Action), Message{
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		UserID:   ev.UserID,
		Data:     ev.Metadata,
		At:       ev.At,
	})
}

var (
	_ Publisher  = Noop{}
	_ Publisher  = (*Rabbit)(nil)
	_ audit.Sink = (*Sink)(nil)
)
