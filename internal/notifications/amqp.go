package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"kingtires/internal/models"
)

const (
	exchangeName = "kingtires.events"

	routingKeyStockChanged  = "product.stock.changed"
	routingKeyTicketCreated = "ticket.created"
)

// StockChangedEvent is published whenever a checkout changes product stock
type StockChangedEvent struct {
	ProductID int       `json:"product_id"`
	Stock     int       `json:"stock"`
	At        time.Time `json:"at"`
}

// TicketCreatedEvent is published when a checkout creates a ticket
type TicketCreatedEvent struct {
	Code         string    `json:"code"`
	UserID       int       `json:"user_id"`
	Total        int       `json:"total"`
	Status       string    `json:"status"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// AMQPPublisher publishes store events to a topic exchange
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher connects to the broker and declares the events exchange
func NewAMQPPublisher(uri string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel}, nil
}

// PublishStockChanged publishes a stock change for a product
func (p *AMQPPublisher) PublishStockChanged(productID, stock int) error {
	return p.publish(routingKeyStockChanged, StockChangedEvent{
		ProductID: productID,
		Stock:     stock,
		At:        time.Now(),
	})
}

// PublishTicketCreated publishes a created purchase ticket
func (p *AMQPPublisher) PublishTicketCreated(ticket *models.Ticket) error {
	return p.publish(routingKeyTicketCreated, TicketCreatedEvent{
		Code:         ticket.Code,
		UserID:       ticket.UserID,
		Total:        ticket.Total,
		Status:       string(ticket.Status),
		PurchaseDate: ticket.PurchaseDate,
	})
}

func (p *AMQPPublisher) publish(routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher discards every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStockChanged(productID, stock int) error { return nil }
func (NoopPublisher) PublishTicketCreated(t *models.Ticket) error    { return nil }
