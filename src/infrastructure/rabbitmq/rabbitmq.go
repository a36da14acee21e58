package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	"go-storefront-payments/src/services/events"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Service publishes payment events to a topic exchange and consumes the
// per-topic queues bound to it.
type Service struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

func NewRabbitMQService(host, exchange, queueName string) (*Service, error) {
	conn, err := amqp.Dial(host)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := declareTopology(ch, exchange, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Service{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

func declareTopology(ch *amqp.Channel, exchange, queueName string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare an exchange: %w", err)
	}

	dlxName := exchange + ".dlx"
	if err := ch.ExchangeDeclare(dlxName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare a dead-letter exchange: %w", err)
	}

	dlqName := events.DLQ(queueName)
	if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare a dead-letter queue: %w", err)
	}
	if err := ch.QueueBind(dlqName, "", dlxName, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}

	// rejected deliveries from every event queue land in the catch-all DLQ
	args := amqp.Table{"x-dead-letter-exchange": dlxName}

	for _, topic := range events.Topics {
		if _, err := ch.QueueDeclare(topic, true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare event queue %s: %w", topic, err)
		}
		if err := ch.QueueBind(topic, topic, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind event queue %s: %w", topic, err)
		}

		topicDLQ := events.DLQ(topic)
		if _, err := ch.QueueDeclare(topicDLQ, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare DLQ %s: %w", topicDLQ, err)
		}
		if err := ch.QueueBind(topicDLQ, topicDLQ, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ %s: %w", topicDLQ, err)
		}
	}
	return nil
}

// Publish sends a persistent JSON message with the topic as routing key.
func (s *Service) Publish(topic string, body []byte) error {
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if body == nil {
		return fmt.Errorf("message body cannot be nil")
	}
	if !s.IsHealthy() {
		return fmt.Errorf("connection to RabbitMQ is closed")
	}

	// amqp channels are not safe for concurrent publishing
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.channel.Publish(
		s.exchange,
		topic,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to topic '%s': %w", topic, err)
	}
	return nil
}

// Consume starts consuming messages from a queue with manual acks.
func (s *Service) Consume(queueName string) (<-chan amqp.Delivery, error) {
	if !s.IsHealthy() {
		return nil, fmt.Errorf("connection is closed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := s.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming queue: %w", err)
	}
	return msgs, nil
}

func (s *Service) IsHealthy() bool {
	return s.conn != nil && !s.conn.IsClosed() && s.channel != nil
}

func (s *Service) Close() {
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}
