package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// channel подмножество *amqp.Channel, используемое публикатором
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует события записей в topic exchange RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   Logger
	now      func() time.Time

	// amqp.Channel не безопасен для конкурентной публикации
	mu sync.Mutex
}

// NewPublisher подключается к брокеру и объявляет exchange
func NewPublisher(url, exchange string, logger Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger,
		now:      time.Now,
	}
}

// PublishAppointmentCreated публикует событие appointment.created
func (p *Publisher) PublishAppointmentCreated(ctx context.Context, appointment *domain.Appointment) error {
	return p.publish(ctx, RoutingKeyAppointmentCreated, appointment)
}

// PublishAppointmentCancelled публикует событие appointment.cancelled
func (p *Publisher) PublishAppointmentCancelled(ctx context.Context, appointment *domain.Appointment) error {
	return p.publish(ctx, RoutingKeyAppointmentCancelled, appointment)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, appointment *domain.Appointment) error {
	event := NewAppointmentEvent(routingKey, appointment, p.now())

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMarshal, routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         routingKey,
		Body:         body,
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("Failed to publish %s for appointment_id=%d: %v", routingKey, appointment.ID, err)
		return fmt.Errorf("%w: %s: %v", ErrPublish, routingKey, err)
	}

	p.logger.Info("Published %s for appointment_id=%d", routingKey, appointment.ID)
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher используется, когда публикация событий выключена
type NoopPublisher struct{}

// PublishAppointmentCreated ничего не делает
func (NoopPublisher) PublishAppointmentCreated(context.Context, *domain.Appointment) error {
	return nil
}

// PublishAppointmentCancelled ничего не делает
func (NoopPublisher) PublishAppointmentCancelled(context.Context, *domain.Appointment) error {
	return nil
}

// Close ничего не делает
func (NoopPublisher) Close() error {
	return nil
}
