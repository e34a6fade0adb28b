package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"jobfit/resume-ranker/internal/models"
)

// Notifier announces ranking run status changes to other services.
type Notifier interface {
	PublishRunUpdate(runID uuid.UUID, status models.RunStatus, message string) error
	Close() error
}

type RunUpdate struct {
	RunID     uuid.UUID        `json:"run_id"`
	Status    models.RunStatus `json:"status"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

type amqpNotifier struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPNotifier connects to RabbitMQ and declares a durable topic exchange.
// Updates are published with routing key "ranking.<run id>".
func NewAMQPNotifier(url, exchange string) (Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpNotifier{conn: conn, exchange: exchange}, nil
}

func (n *amqpNotifier) PublishRunUpdate(runID uuid.UUID, status models.RunStatus, message string) error {
	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(RunUpdate{
		RunID:     runID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal run update: %w", err)
	}

	return ch.Publish(
		n.exchange,
		fmt.Sprintf("ranking.%s", runID),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (n *amqpNotifier) Close() error {
	return n.conn.Close()
}

type noopNotifier struct{}

// NewNoopNotifier is used when no broker is configured.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) PublishRunUpdate(uuid.UUID, models.RunStatus, string) error { return nil }

func (noopNotifier) Close() error { return nil }
