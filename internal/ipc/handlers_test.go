package ipc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	mu       sync.Mutex
	executed []Command
	enqueued []Command
	err      error
	widgets  []WidgetStatus
}

func (f *fakeManager) Status() ([]WidgetStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.widgets, f.err
}

func (f *fakeManager) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeManager) Execute(cmd Command) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, cmd)
	return nil, f.err
}

func (f *fakeManager) EnqueueCommand(cmd Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, cmd)
}

func (f *fakeManager) last() Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.executed) == 0 {
		return Command{}
	}
	return f.executed[len(f.executed)-1]
}

func serve(m ManagerInterface, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	NewServer(m).ServeHTTP(rec, req)
	return rec
}

func TestWidgetRoutes(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want Command
	}{
		{"start", "/widgets/news/start", "", Command{Type: CommandStart, Widget: "news"}},
		{"stop", "/widgets/news/stop", "", Command{Type: CommandHalt, Widget: "news"}},
		{"text", "/widgets/news/text", `{"text":"hello world"}`, Command{Type: CommandText, Widget: "news", Args: []string{"hello world"}}},
		{"empty text", "/widgets/news/text", `{"text":""}`, Command{Type: CommandText, Widget: "news", Args: []string{""}}},
		{"color", "/widgets/news/color", `{"color":"#ff0000"}`, Command{Type: CommandColor, Widget: "news", Args: []string{"#ff0000", ""}}},
		{"value", "/widgets/load/value", `{"value":42.5}`, Command{Type: CommandValue, Widget: "load", Args: []string{"42.5"}}},
		{"command", "/command", `{"type":"value","widget":"load","args":["7"]}`, Command{Type: CommandValue, Widget: "load", Args: []string{"7"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeManager{}
			rec := serve(m, http.MethodPost, tt.path, tt.body)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, m.last())
		})
	}
}

func TestWidgetRoutesRejectBadBodies(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"text missing", "/widgets/news/text", `{}`},
		{"color missing", "/widgets/news/color", `{}`},
		{"value missing", "/widgets/load/value", `{}`},
		{"value not a number", "/widgets/load/value", `{"value":"lots"}`},
		{"command without type", "/command", `{"widget":"news"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeManager{}
			rec := serve(m, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, m.executed)
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{ErrUnknownWidget, http.StatusNotFound},
		{ErrUnknownCommand, http.StatusBadRequest},
		{ErrUnsupported, http.StatusBadRequest},
		{ErrBadArguments, http.StatusBadRequest},
		{ErrStopped, http.StatusServiceUnavailable},
		{ErrTimeout, http.StatusGatewayTimeout},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			m := &fakeManager{err: tt.err}
			rec := serve(m, http.MethodPost, "/widgets/news/start", "")

			assert.Equal(t, tt.code, rec.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.err.Error(), resp.Message)
		})
	}
}

func TestStatusRoute(t *testing.T) {
	v := 12.0
	m := &fakeManager{widgets: []WidgetStatus{
		{Name: "load", Kind: "progress", Value: &v},
		{Name: "news", Kind: "marquee", Showing: true, Text: "hi"},
	}}
	rec := serve(m, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Version)
	assert.NotZero(t, resp.PID)
	require.Len(t, resp.Widgets, 2)
	assert.Equal(t, 12.0, *resp.Widgets[0].Value)
	assert.Equal(t, "hi", resp.Widgets[1].Text)
}

func TestStopRouteEnqueues(t *testing.T) {
	m := &fakeManager{}
	rec := serve(m, http.MethodPost, "/stop", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []Command{{Type: CommandStop}}, m.enqueued)
	assert.Empty(t, m.executed)
}
