package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
	"github.com/next-trace/scg-rfid-reader/partner"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 16

// ActionRequest is the body of an action call. Args carries the positional
// arguments of done_write_data: current money on the card, then money added.
type ActionRequest struct {
	DisplayName string             `json:"display_name"`
	Context     cbus.ActionContext `json:"context"`
	Args        []any              `json:"args"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) runAction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PARTNER", "partner id must be a positive integer")
		return
	}

	var req ActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	c := partner.Contact{ID: id, DisplayName: req.DisplayName}
	ctx := r.Context()

	switch action := chi.URLParam(r, "action"); action {
	case ActionTestWriteData:
		err = h.dispatcher.NotifyWrite(ctx, c, req.Context)
	case ActionTestReadData:
		err = h.dispatcher.NotifyRead(ctx, c, req.Context)
	case ActionDoneWriteData:
		current, added := argString(req.Args, 0), argString(req.Args, 1)
		h.dispatcher.LogCardTopup(ctx, c, current, added)
	case ActionCancelWriteData:
		h.dispatcher.LogCancel(ctx, c)
	default:
		writeError(w, http.StatusNotFound, "UNKNOWN_ACTION", fmt.Sprintf("unknown action %q", action))
		return
	}

	if err != nil {
		status, code := mapError(err)
		h.logger.ErrorContext(ctx, "action failed", "partner_id", id, "err", err)
		writeError(w, status, code, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": true})
}

// argString renders positional argument i as the terminal sent it. Missing,
// null, false and zero arguments become "" so they count as no value. Arrays
// and objects are never an amount and also render as "".
func argString(args []any, i int) string {
	if i >= len(args) {
		return ""
	}

	switch v := args[i].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}

		return "true"
	case float64:
		if v == 0 {
			return ""
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, berr.ErrPayloadTooLong):
		return http.StatusUnprocessableEntity, berr.ErrCodePayloadTooLong
	case errors.Is(err, berr.ErrBusClosed):
		return http.StatusServiceUnavailable, berr.ErrCodeBusClosed
	case errors.Is(err, berr.ErrTransportNotConfigured):
		return http.StatusServiceUnavailable, berr.ErrCodeTransportNotConfigured
	case errors.Is(err, berr.ErrPublishFailed):
		return http.StatusBadGateway, berr.ErrCodePublishFailed
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if len(body) > maxBodyBytes {
		return errors.New("body too large")
	}

	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}
