package bus

import "context"

// Event names understood by the cashier terminal frontend.
const (
	EventNotification = "notification"
	EventReadCard     = "read_card"
)

// Notifier sends one notification to a named channel. It is the only bus
// capability the partner actions depend on.
type Notifier interface {
	SendOne(ctx context.Context, channel, event string, payload map[string]any) error
}

// Bus is a minimal, tech-agnostic interface that mirrors the capabilities of the
// concrete service bus. Consumers that want to depend only on contracts use it.
type Bus interface {
	Notifier

	// SendMany sends prepared notifications in order.
	SendMany(ctx context.Context, notifications ...Notification) error

	// Subscribe registers a handler for one channel and returns a function that removes it.
	Subscribe(channel string, handler Handler) (cancel func())

	// Lifecycle
	Close() error
}

// Handler receives notifications delivered in-process.
// Implementations must be safe for concurrent use by multiple goroutines.
type Handler func(ctx context.Context, n Notification) error
