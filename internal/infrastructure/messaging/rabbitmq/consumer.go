package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	contracts "github.com/suppertable/experience-service/internal/contracts/event"
	"github.com/suppertable/experience-service/internal/domain"
)

const (
	mainQueueName  = "experience-service.booking-events"
	retryQueueName = "experience-service.booking-events.retry"
	dlqName        = "experience-service.booking-events.dlq"
	dlxName        = "suppertable.dlx"

	maxRetries = 3
)

// SpotsApplier is the slice of the experience service the consumer needs:
// counter adjustments driven by booking collaborator events.
type SpotsApplier interface {
	ApplyBookingConfirmed(ctx context.Context, experienceID string, tickets int) error
	ApplyBookingRefunded(ctx context.Context, experienceID string, tickets int) error
}

// Consumer listens for booking.confirmed and booking.refunded and keeps the
// cached spots_left counter moving. Failed messages go through a TTL retry
// queue and, after maxRetries, to the DLQ.
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	service  SpotsApplier
	exchange string
}

func NewConsumer(rabbitURL, exchange string, service SpotsApplier) (*Consumer, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	err = ch.ExchangeDeclare(
		dlxName, "fanout", true, false, false, false, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare dlx: %w", err)
	}

	_, err = ch.QueueDeclare(
		dlqName, true, false, false, false, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare dlq: %w", err)
	}
	if err := ch.QueueBind(dlqName, "", dlxName, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind dlq: %w", err)
	}

	mainQArgs := amqp.Table{
		"x-dead-letter-exchange": dlxName,
	}
	q, err := ch.QueueDeclare(
		mainQueueName, true, false, false, false, mainQArgs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	// the retry queue dead-letters back into the main queue after the TTL
	retryQArgs := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": mainQueueName,
		"x-message-ttl":             5000,
	}
	_, err = ch.QueueDeclare(
		retryQueueName, true, false, false, false, retryQArgs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	for _, key := range []string{"booking.confirmed", "booking.refunded"} {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}

	return &Consumer{
		conn:     conn,
		channel:  ch,
		queue:    q.Name,
		service:  service,
		exchange: exchange,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) {
	go c.consume(ctx)
	log.Info().
		Str("queue", c.queue).
		Str("exchange", c.exchange).
		Msg("booking events consumer started")
}

func (c *Consumer) consume(ctx context.Context) {
	msgs, err := c.channel.Consume(
		c.queue, "", false, false, false, false, nil,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to start consuming")
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("consumer shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Msg("consumer channel closed")
				return
			}
			c.handleMessage(msg)
		}
	}
}

type bookingEventBody struct {
	ExperienceID string
	Tickets      int
}

// decodeBookingEvent accepts the versioned envelope; extra JSON is ignored.
func decodeBookingEvent(body []byte) (bookingEventBody, error) {
	var env contracts.DomainEventEnvelope[contracts.BookingConfirmedPayload]
	if err := json.Unmarshal(body, &env); err != nil {
		return bookingEventBody{}, err
	}
	if env.Payload.ExperienceID == "" {
		return bookingEventBody{}, errors.New("missing experience_id")
	}
	return bookingEventBody{
		ExperienceID: env.Payload.ExperienceID,
		Tickets:      env.Payload.Tickets,
	}, nil
}

func (c *Consumer) handleMessage(msg amqp.Delivery) {
	routingKey := msg.RoutingKey
	if val, ok := msg.Headers["x-original-routing-key"].(string); ok {
		routingKey = val
	}

	log.Debug().
		Str("routing_key", routingKey).
		Str("message_id", msg.MessageId).
		Msg("received booking event")

	evt, err := decodeBookingEvent(msg.Body)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode booking event")
		msg.Nack(false, false) // poison message -> DLQ
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch routingKey {
	case "booking.confirmed":
		err = c.service.ApplyBookingConfirmed(ctx, evt.ExperienceID, evt.Tickets)
	case "booking.refunded":
		err = c.service.ApplyBookingRefunded(ctx, evt.ExperienceID, evt.Tickets)
	default:
		log.Warn().Str("routing_key", routingKey).Msg("unknown routing key")
		msg.Ack(false)
		return
	}

	if err != nil {
		// an experience deleted between the booking and this message would
		// loop forever if retried; drop it
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Code == domain.CodeNotFound {
			log.Warn().
				Str("experience_id", evt.ExperienceID).
				Msg("experience not found, dropping message")
			msg.Ack(false)
			return
		}

		retryCount := 0
		if val, ok := msg.Headers["x-retry-count"].(int32); ok {
			retryCount = int(val)
		}

		if retryCount < maxRetries {
			log.Warn().
				Err(err).
				Int("retry_count", retryCount).
				Msg("processing failed, scheduling retry")

			headers := make(amqp.Table)
			for k, v := range msg.Headers {
				headers[k] = v
			}
			headers["x-retry-count"] = int32(retryCount + 1)
			headers["x-original-routing-key"] = routingKey

			pubErr := c.channel.Publish(
				"",
				retryQueueName,
				false,
				false,
				amqp.Publishing{
					ContentType: msg.ContentType,
					Body:        msg.Body,
					Headers:     headers,
					MessageId:   msg.MessageId,
				},
			)

			if pubErr != nil {
				log.Error().Err(pubErr).Msg("failed to publish to retry queue")
				msg.Nack(false, false)
			} else {
				msg.Ack(false)
			}
			return
		}

		log.Error().
			Err(err).
			Str("experience_id", evt.ExperienceID).
			Msg("max retries reached, sending to DLQ")
		msg.Nack(false, false)
		return
	}

	log.Info().
		Str("experience_id", evt.ExperienceID).
		Str("routing_key", routingKey).
		Msg("spots counter updated")
	msg.Ack(false)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
