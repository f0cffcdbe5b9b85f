// Package wire holds the body and header encoding shared by the transport adapters.
package wire

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
)

// Header names set on every outbound notification.
const (
	HeaderEvent = "event"
	HeaderID    = "notification-id"
	HeaderKey   = "key"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode serializes a notification envelope as JSON.
func Encode(n cbus.Notification) ([]byte, error) {
	return json.Marshal(n)
}

// Decode parses a body produced by Encode.
func Decode(body []byte) (cbus.Notification, error) {
	var n cbus.Notification
	err := json.Unmarshal(body, &n)

	return n, err
}

// Headers merges caller headers with the envelope headers. The caller map is
// never mutated. A non-nil propagator may add context headers.
func Headers(ctx context.Context, n cbus.Notification, o cbus.PublishOptions, p cbus.HeaderPropagator) map[string]string {
	h := make(map[string]string, len(o.Headers)+4)
	for k, v := range o.Headers {
		h[k] = v
	}

	h[HeaderEvent] = n.Event
	h[HeaderID] = n.ID

	if o.Key != "" {
		h[HeaderKey] = o.Key
	}

	if ctx != nil && p != nil {
		p.Inject(ctx, h)
	}

	return h
}

// Key returns the routing/partition key: the override when set, else the channel.
func Key(n cbus.Notification, o cbus.PublishOptions) string {
	if o.Key != "" {
		return o.Key
	}

	return n.Channel
}
