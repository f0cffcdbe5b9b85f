// Package httpapi exposes the contact card actions over HTTP.
package httpapi

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/next-trace/scg-rfid-reader/partner"
)

// Action names, matching the button names on the contact form.
const (
	ActionTestWriteData   = "test_write_data"
	ActionTestReadData    = "test_read_data"
	ActionDoneWriteData   = "done_write_data"
	ActionCancelWriteData = "cancel_write_data"
)

// Handler is the HTTP adapter entrypoint for contact actions.
type Handler struct {
	dispatcher *partner.Dispatcher
	logger     *slog.Logger
}

// NewHandler constructs an HTTP handler bound to the dispatcher. logger may be nil.
func NewHandler(d *partner.Dispatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handler{dispatcher: d, logger: logger}
}

// NewRouter registers the routes and middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", h.healthz)
	r.Post("/partners/{id}/actions/{action}", h.runAction)

	return r
}
