package bus

import "context"

// Publisher abstracts forwarding notifications to an external broker.
// Library users provide an implementation that maps to NATS/RabbitMQ/Kafka/Redis etc.
type Publisher interface {
	Publish(ctx context.Context, n Notification, opts PublishOptions) error
}
