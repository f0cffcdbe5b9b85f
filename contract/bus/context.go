package bus

import "context"

// HeaderPropagator abstracts injecting request context into transport headers.
// Implementors mutate the provided headers map by inserting keys that carry the
// context across process boundaries. Implementations must be safe for concurrent use.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}

// NopHeaderPropagator is a no-op implementation useful for tests or when propagation is disabled.
type NopHeaderPropagator struct{}

func (NopHeaderPropagator) Inject(ctx context.Context, headers map[string]string) {
	_ = ctx
	_ = headers
}

// RequestIDHeader is the header written by RequestIDPropagator.
const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

// WithRequestID returns a context carrying the id of the action request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored by WithRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDPropagator copies the request id from the context into headers.
type RequestIDPropagator struct{}

func (RequestIDPropagator) Inject(ctx context.Context, headers map[string]string) {
	if id, ok := RequestID(ctx); ok {
		headers[RequestIDHeader] = id
	}
}
