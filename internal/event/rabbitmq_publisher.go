package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	routingKeyLoanCompleted       = "loan.completed"
	routingKeyAmortizationPastDue = "amortization.pastdue"
	routingKeyBorrowerRegistered  = "borrower.registered"
	publisherAppID                = "sharky"
)

type RabbitMQEventPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
}

type EventPublisher interface {
	PublishLoanCompleted(ctx context.Context, event LoanCompletedEvent) error
	PublishAmortizationPastDue(ctx context.Context, event AmortizationPastDueEvent) error
	PublishBorrowerRegistered(ctx context.Context, event BorrowerRegisteredEvent) error
}

// LoanCompletedEvent is emitted when the final installment is paid or the
// loan is pre-terminated.
type LoanCompletedEvent struct {
	LoanID        int64     `json:"loanId"`
	BorrowerID    int64     `json:"borrowerId"`
	Preterminated bool      `json:"preterminated"`
	CompletedAt   time.Time `json:"completedAt"`
}

type AmortizationPastDueEvent struct {
	AmortizationID int64     `json:"amortizationId"`
	LoanID         int64     `json:"loanId"`
	AmountDue      string    `json:"amountDue"`
	DueDate        time.Time `json:"dueDate"`
	Timestamp      time.Time `json:"timestamp"`
}

type BorrowerRegisteredEvent struct {
	BorrowerID int64     `json:"borrowerId"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewRabbitMQEventPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (EventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	err = tempCh.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQEventPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQEventPublisher", "exchange", exchangeName),
	}, nil
}

func (p *RabbitMQEventPublisher) publish(ctx context.Context, routingKey string, payload interface{}) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	logCtx.DebugContext(ctx, "Publishing message", "bodySize", len(body))

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			AppId:        publisherAppID,
		},
	)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}

func (p *RabbitMQEventPublisher) PublishLoanCompleted(ctx context.Context, event LoanCompletedEvent) error {
	return p.publish(ctx, routingKeyLoanCompleted, event)
}

func (p *RabbitMQEventPublisher) PublishAmortizationPastDue(ctx context.Context, event AmortizationPastDueEvent) error {
	return p.publish(ctx, routingKeyAmortizationPastDue, event)
}

func (p *RabbitMQEventPublisher) PublishBorrowerRegistered(ctx context.Context, event BorrowerRegisteredEvent) error {
	return p.publish(ctx, routingKeyBorrowerRegistered, event)
}
