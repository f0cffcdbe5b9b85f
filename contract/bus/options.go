package bus

// PublishOptions controls how a notification is handed to a transport.
// Key overrides the partition/routing key; adapters default to the channel.
type PublishOptions struct {
	Key     string
	Headers map[string]string
}
