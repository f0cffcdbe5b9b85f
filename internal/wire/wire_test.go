package wire_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	"github.com/next-trace/scg-rfid-reader/internal/wire"
)

func TestEncodeDecode(t *testing.T) {
	n := cbus.Notification{
		ID:      "n-1",
		Channel: "client-1",
		Event:   cbus.EventNotification,
		Payload: map[string]any{"partner_id": 7, "data": "20500"},
		SentAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := wire.Encode(n)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":"n-1","channel":"client-1","event":"notification",`+
			`"payload":{"partner_id":7,"data":"20500"},"sent_at":"2025-01-02T03:04:05Z"}`,
		string(body))

	got, err := wire.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, "client-1", got.Channel)
	assert.Equal(t, "20500", got.Payload["data"])
}

func TestEncode_UnsupportedPayload(t *testing.T) {
	_, err := wire.Encode(cbus.Notification{Payload: map[string]any{"ch": make(chan int)}})
	assert.Error(t, err)
}

func TestHeaders(t *testing.T) {
	caller := map[string]string{"h": "v"}
	n := cbus.Notification{ID: "n-1", Event: cbus.EventReadCard, Channel: "c"}
	ctx := cbus.WithRequestID(testContext(t), "req-9")

	h := wire.Headers(ctx, n, cbus.PublishOptions{Key: "k", Headers: caller}, cbus.RequestIDPropagator{})

	assert.Equal(t, map[string]string{
		"h":               "v",
		"event":           "read_card",
		"notification-id": "n-1",
		"key":             "k",
		"x-request-id":    "req-9",
	}, h)
	assert.Len(t, caller, 1, "caller headers must not be mutated")
}

func TestKey(t *testing.T) {
	n := cbus.Notification{Channel: "c"}
	assert.Equal(t, "c", wire.Key(n, cbus.PublishOptions{}))
	assert.Equal(t, "k", wire.Key(n, cbus.PublishOptions{Key: "k"}))
}
