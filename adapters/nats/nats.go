package nats

import (
	"context"
	"errors"
	"fmt"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
	"github.com/next-trace/scg-rfid-reader/internal/wire"
)

const subjectPrefix = "bus."

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter implements cbus.Adapter using an injected NATS-like Client.
type Adapter struct {
	Client     Client
	Propagator cbus.HeaderPropagator // optional
}

// Ensure Adapter implements the contract.
var _ cbus.Adapter = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

// Publish sends the notification to subject "bus.<channel>".
func (a *Adapter) Publish(ctx context.Context, n cbus.Notification, opts cbus.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats publish: %w", berr.ErrTransportNotConfigured)
	}

	body, err := wire.Encode(n)
	if err != nil {
		return fmt.Errorf("nats publish serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	headers := wire.Headers(ctx, n, opts, a.Propagator)

	if err := a.Client.Publish(subjectFor(n), body, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats publish: %w", errors.Join(berr.ErrPublishFailed, err))
	}

	return nil
}

func subjectFor(n cbus.Notification) string {
	return subjectPrefix + n.Channel
}
