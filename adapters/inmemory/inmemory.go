package inmemory

import (
	"context"
	"sync"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
)

// Publisher is a thread-safe in-memory implementation of cbus.Publisher.
// It records published notifications for testing and examples.
type Publisher struct {
	mu            sync.Mutex
	notifications []cbus.Notification
}

// Ensure Publisher implements the adapter contract.
var _ cbus.Adapter = (*Publisher)(nil)

// New creates a new in-memory publisher.
func New() *Publisher { return &Publisher{} }

func (p *Publisher) Publish(ctx context.Context, n cbus.Notification, opts cbus.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	p.notifications = append(p.notifications, n)
	p.mu.Unlock()

	return nil
}

// Notifications returns a copy of everything published so far.
func (p *Publisher) Notifications() []cbus.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]cbus.Notification(nil), p.notifications...)
}

// For returns the notifications published to one channel, in order.
func (p *Publisher) For(channel string) []cbus.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []cbus.Notification

	for _, n := range p.notifications {
		if n.Channel == channel {
			out = append(out, n)
		}
	}

	return out
}

// Reset drops all recorded notifications.
func (p *Publisher) Reset() {
	p.mu.Lock()
	p.notifications = nil
	p.mu.Unlock()
}
