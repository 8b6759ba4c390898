package experience

import "context"

// NoopPublisher stands in for the broker in dev runs without RabbitMQ. The
// outbox rows stay pending and drain once a real publisher is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	return nil
}
