package bus

import "context"

// InfoLogger is the logging capability the partner actions write to.
// *slog.Logger satisfies it.
type InfoLogger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
}
