package kafka

import (
	"context"
	"errors"
	"fmt"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
	"github.com/next-trace/scg-rfid-reader/internal/wire"
)

// DefaultTopic carries every notification; the record key is the channel so a
// client's notifications stay ordered within one partition.
const DefaultTopic = "bus.notifications"

// Writer is a minimal Kafka-like writer interface.
// Users can adapt any client to this; NewWithKgo wires franz-go.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements cbus.Adapter using an injected Writer.
type Adapter struct {
	Writer     Writer
	Topic      string
	Propagator cbus.HeaderPropagator // optional
}

var _ cbus.Adapter = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w, Topic: DefaultTopic} }

func (a *Adapter) Publish(ctx context.Context, n cbus.Notification, opts cbus.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka publish: %w", berr.ErrTransportNotConfigured)
	}

	val, err := wire.Encode(n)
	if err != nil {
		return fmt.Errorf("kafka publish serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	topic := a.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	key := []byte(wire.Key(n, opts))
	headers := wire.Headers(ctx, n, opts, a.Propagator)

	if err = a.Writer.Write(ctx, topic, key, val, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("kafka publish write to %q: %w", topic, errors.Join(berr.ErrPublishFailed, err))
	}

	return nil
}
