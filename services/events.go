package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/workhub-app/workhub-api/models"
)

// Order event types, also used as routing keys
const (
	EventOrderCreated   = "order.created"
	EventOrderAccepted  = "order.accepted"
	EventOrderDeclined  = "order.declined"
	EventOrderCompleted = "order.completed"
	EventOrderRated     = "order.rated"
)

// OrderEvent is the message published for each order change
type OrderEvent struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	WorkerID   string             `json:"worker_id"`
	Status     models.OrderStatus `json:"status"`
	Rating     *int               `json:"rating,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewOrderEvent describes the current state of order as eventType
func NewOrderEvent(eventType string, order *models.Order) OrderEvent {
	return OrderEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		WorkerID:   order.WorkerID,
		Status:     order.Status,
		Rating:     order.Rating,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher sends order events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NoopPublisher) Close() error                              { return nil }

// RabbitMQPublisher publishes JSON events to a topic exchange
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex // amqp channels are not safe for concurrent publishes
}

// NewRabbitMQPublisher dials url and declares the durable topic exchange
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &RabbitMQPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends event with its type as routing key
func (p *RabbitMQPublisher) Publish(ctx context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := amqp.Publishing{
		MessageId:    event.ID,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close closes the channel and the connection
func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		log.Printf("warning: failed to close RabbitMQ channel: %v", err)
	}
	return p.conn.Close()
}

var eventPublisherInstance EventPublisher = NoopPublisher{}

// InitEventPublisher connects to RabbitMQ when url is set and falls back to
// dropping events otherwise
func InitEventPublisher(url, exchange string) (EventPublisher, error) {
	if url == "" {
		eventPublisherInstance = NoopPublisher{}
		return eventPublisherInstance, nil
	}

	publisher, err := NewRabbitMQPublisher(url, exchange)
	if err != nil {
		return nil, err
	}
	eventPublisherInstance = publisher
	log.Printf("Publishing order events to exchange %s", exchange)
	return eventPublisherInstance, nil
}

// GetEventPublisher returns the installed publisher
func GetEventPublisher() EventPublisher {
	return eventPublisherInstance
}

// SetEventPublisher replaces the publisher (primarily for testing)
func SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = NoopPublisher{}
	}
	eventPublisherInstance = p
}

// publishOrderEvent never fails the caller; order changes are already stored
func publishOrderEvent(ctx context.Context, publisher EventPublisher, eventType string, order *models.Order) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, NewOrderEvent(eventType, order)); err != nil {
		log.Printf("Failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}
