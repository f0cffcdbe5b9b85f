package servicebus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
)

// Bus is a thin in-process notification bus. Notifications are addressed to a
// channel (the frontend's correlation token), delivered synchronously to local
// subscribers of that channel and forwarded to the configured Publisher.
//
// Bus is concurrency-safe and contains no global state.
type Bus struct {
	mu sync.RWMutex

	subs   map[string][]subscription
	nextID uint64
	closed bool

	// global send middleware executed in registration order
	mw []SendMiddleware

	pub    cbus.Publisher
	logger *slog.Logger
	now    func() time.Time
}

type subscription struct {
	id uint64
	fn cbus.Handler
}

// Ensure Bus implements the contract.
var _ cbus.Bus = (*Bus)(nil)

// Option configures a Bus instance.
type Option func(*Bus)

// SendMiddleware wraps delivery of a notification. Middlewares are executed in registration order.
type SendMiddleware func(next cbus.Handler) cbus.Handler

// WithSendMiddleware registers global send middleware.
func WithSendMiddleware(mw ...SendMiddleware) Option {
	return func(b *Bus) { b.mw = append(b.mw, mw...) }
}

// WithClock overrides the clock used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

// New constructs a new Bus. pub and logger may be nil.
func New(pub cbus.Publisher, logger *slog.Logger, opts ...Option) *Bus {
	b := &Bus{
		subs:   make(map[string][]subscription),
		pub:    pub,
		logger: logger,
		now:    time.Now,
	}

	for _, o := range opts {
		o(b)
	}

	return b
}

// Subscribe registers a handler for notifications sent to channel.
// The returned function removes the subscription; calling it twice is harmless.
func (b *Bus) Subscribe(channel string, h cbus.Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[channel] = append(b.subs[channel], subscription{id: id, fn: h})

	return func() { b.unsubscribe(channel, id) }
}

func (b *Bus) unsubscribe(channel string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[channel]
	for i, s := range subs {
		if s.id == id {
			b.subs[channel] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}

	if len(b.subs[channel]) == 0 {
		delete(b.subs, channel)
	}
}

// SendOne builds a notification for channel and delivers it.
func (b *Bus) SendOne(ctx context.Context, channel, event string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}

	n := cbus.Notification{
		ID:      uuid.NewString(),
		Channel: channel,
		Event:   event,
		Payload: payload,
		SentAt:  b.now().UTC(),
	}

	return b.send(ctx, n)
}

// SendMany delivers the notifications sequentially.
// It respects context cancellation and aggregates errors.
func (b *Bus) SendMany(ctx context.Context, notifications ...cbus.Notification) error {
	var errs []error

	for _, n := range notifications {
		if err := ctx.Err(); err != nil { // canceled or deadline exceeded
			return errors.Join(append(errs, err)...)
		}

		if n.ID == "" {
			n.ID = uuid.NewString()
		}

		if n.SentAt.IsZero() {
			n.SentAt = b.now().UTC()
		}

		if n.Payload == nil {
			n.Payload = map[string]any{}
		}

		if err := b.send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close marks the bus closed and drops all subscriptions.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.subs = make(map[string][]subscription)

	return nil
}

func (b *Bus) send(ctx context.Context, n cbus.Notification) error {
	if n.Channel == "" {
		return fmt.Errorf("send %q: %w", n.Event, berr.ErrChannelRequired)
	}

	if n.Event == "" {
		return fmt.Errorf("send to %s: %w", n.Channel, berr.ErrEventRequired)
	}

	b.mu.RLock()
	closed := b.closed
	chain := append([]SendMiddleware(nil), b.mw...)
	b.mu.RUnlock()

	if closed {
		return fmt.Errorf("send %s to %s: %w", n.Event, n.Channel, berr.ErrBusClosed)
	}

	// Build chain so the first registered middleware runs first
	final := cbus.Handler(b.deliver)
	for i := len(chain) - 1; i >= 0; i-- {
		final = chain[i](final)
	}

	return final(ctx, n)
}

func (b *Bus) deliver(ctx context.Context, n cbus.Notification) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[n.Channel]...)
	b.mu.RUnlock()

	var errs []error

	for _, s := range subs {
		if err := s.fn(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}

	if b.pub != nil {
		if err := b.pub.Publish(ctx, n, cbus.PublishOptions{}); err != nil {
			errs = append(errs, err)
		}
	} else if len(subs) == 0 {
		b.debug(ctx, "notification dropped: no subscriber and no transport",
			"channel", n.Channel, "event", n.Event)
	}

	return errors.Join(errs...)
}

func (b *Bus) debug(ctx context.Context, msg string, args ...any) {
	if b.logger == nil {
		return
	}

	b.logger.DebugContext(ctx, msg, args...)
}

// LoggingMiddleware logs every notification sent through the bus.
func LoggingMiddleware(logger *slog.Logger) SendMiddleware {
	return func(next cbus.Handler) cbus.Handler {
		return func(ctx context.Context, n cbus.Notification) error {
			err := next(ctx, n)
			if logger == nil {
				return err
			}

			if err != nil {
				logger.ErrorContext(ctx, "bus send failed",
					"id", n.ID, "channel", n.Channel, "event", n.Event, "err", err)

				return err
			}

			logger.DebugContext(ctx, "bus send", "id", n.ID, "channel", n.Channel, "event", n.Event)

			return nil
		}
	}
}
