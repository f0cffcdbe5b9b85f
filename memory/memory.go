package memory

import (
	"log/slog"

	"github.com/next-trace/scg-rfid-reader/adapters/inmemory"
	"github.com/next-trace/scg-rfid-reader/servicebus"
)

// New constructs a service bus backed by the in-memory publisher and returns it
// along with the publisher (for inspection) and a cleanup function that closes the bus.
func New(logger *slog.Logger, opts ...servicebus.Option) (*servicebus.Bus, *inmemory.Publisher, func()) {
	pub := inmemory.New()
	sb := servicebus.New(pub, logger, opts...)
	cleanup := func() { _ = sb.Close() }

	return sb, pub, cleanup
}
