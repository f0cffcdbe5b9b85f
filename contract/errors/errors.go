package errors

// Error codes for the bus contracts. Keep stable; used across adapters and bus.
const (
	ErrCodeChannelRequired        = "servicebus.channel_required"
	ErrCodeEventRequired          = "servicebus.event_required"
	ErrCodeTransportNotConfigured = "servicebus.transport_not_configured"
	ErrCodePublishFailed          = "servicebus.publish_failed"
	ErrCodeSerializationFailed    = "servicebus.serialization_failed"
	ErrCodeBusClosed              = "servicebus.bus_closed"
	ErrCodePayloadTooLong         = "reader.payload_too_long"
	ErrCodeInvalidCommand         = "reader.invalid_command"
	ErrCodeUnexpectedResponse     = "reader.unexpected_response"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrChannelRequired        = Code(ErrCodeChannelRequired)
	ErrEventRequired          = Code(ErrCodeEventRequired)
	ErrTransportNotConfigured = Code(ErrCodeTransportNotConfigured)
	ErrPublishFailed          = Code(ErrCodePublishFailed)
	ErrSerializationFailed    = Code(ErrCodeSerializationFailed)
	ErrBusClosed              = Code(ErrCodeBusClosed)
	ErrPayloadTooLong         = Code(ErrCodePayloadTooLong)
	ErrInvalidCommand         = Code(ErrCodeInvalidCommand)
	ErrUnexpectedResponse     = Code(ErrCodeUnexpectedResponse)
)
