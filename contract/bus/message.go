package bus

import "time"

// Notification is the envelope carried by the bus. Channel is the client
// correlation token of the frontend session it is addressed to.
type Notification struct {
	ID      string         `json:"id"`
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
	SentAt  time.Time      `json:"sent_at"`
}
