package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/next-trace/scg-rfid-reader/adapters/inmemory"
	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
	"github.com/next-trace/scg-rfid-reader/httpapi"
	"github.com/next-trace/scg-rfid-reader/memory"
	"github.com/next-trace/scg-rfid-reader/partner"
	"github.com/next-trace/scg-rfid-reader/servicebus"
)

type fixture struct {
	server *httptest.Server
	logs   *bytes.Buffer
	bus    *servicebus.Bus
	pub    *inmemory.Publisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b, pub, cleanup := memory.New(logger)
	d := partner.NewDispatcher(b, logger)
	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(d, logger)))

	t.Cleanup(func() {
		srv.Close()
		cleanup()
	})

	return &fixture{server: srv, logs: logs, bus: b, pub: pub}
}

func (f *fixture) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp, out
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestAction_TestWriteData(t *testing.T) {
	f := newFixture(t)

	resp, out := f.post(t, "/partners/7/actions/test_write_data",
		`{"display_name":"Alice","context":{"uuid_client":"client-1","lang":"vi_VN"}}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["result"])

	sent := f.pub.For("client-1")
	require.Len(t, sent, 1)
	assert.Equal(t, cbus.EventNotification, sent[0].Event)
	assert.Equal(t, "20500", sent[0].Payload["data"])
	assert.Equal(t, int64(7), sent[0].Payload["partner_id"])
}

func TestAction_TestReadData_WithoutToken(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.post(t, "/partners/7/actions/test_read_data", `{"display_name":"Alice","context":{"uuid_client":false}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.post(t, "/partners/7/actions/test_read_data", ``)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Empty(t, f.pub.Notifications())
}

func TestAction_DoneWriteData(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.post(t, "/partners/7/actions/done_write_data", `{"display_name":"Alice","args":["100", 50]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, f.logs.String(), "current_money_in_card: 100 add_money: 50 Alice")

	f.logs.Reset()

	for _, body := range []string{
		`{"display_name":"Alice","args":[null, "5"]}`,
		`{"display_name":"Alice","args":[[], "5"]}`,
		`{"display_name":"Alice","args":[{}, "5"]}`,
		`{"display_name":"Alice","args":["100", []]}`,
		`{"display_name":"Alice","args":["100", {}]}`,
	} {
		resp, _ = f.post(t, "/partners/7/actions/done_write_data", body)
		assert.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.NotContains(t, f.logs.String(), "current_money_in_card", body)
	}
}

func TestAction_CancelWriteData(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.post(t, "/partners/9/actions/cancel_write_data", `{"display_name":"Bob"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, f.logs.String(), `msg="cancel Bob"`)
}

func TestAction_Errors(t *testing.T) {
	f := newFixture(t)

	resp, out := f.post(t, "/partners/abc/actions/test_read_data", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PARTNER", out["code"])

	resp, out = f.post(t, "/partners/7/actions/format_card", `{}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_ACTION", out["code"])

	resp, out = f.post(t, "/partners/7/actions/test_read_data", `{"context":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", out["code"])

	require.NoError(t, f.bus.Close())

	resp, out = f.post(t, "/partners/7/actions/test_read_data", `{"context":{"uuid_client":"c"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, berr.ErrCodeBusClosed, out["code"])
}
