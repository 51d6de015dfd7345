package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"controlling_aircon/internal/models"
	"controlling_aircon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=2m", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=120000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialWS(t *testing.T, s *service.Service, query string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocket_StateStream_InitialAndPeriodic(t *testing.T) {
	mon := &mockMonitoring{state: models.ApplianceState{Powered: true, Mode: "cool", Temperature: 24}}
	conn := dialWS(t, &service.Service{Monitoring: mon}, "interval_ms=20")

	env := readEnvelope(t, conn)
	if env.Type != wsTypeState || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var st models.ApplianceState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if !st.Powered || st.Mode != "cool" || st.Temperature != 24 {
		t.Fatalf("unexpected state: %+v", st)
	}

	if env = readEnvelope(t, conn); env.Type != wsTypeState {
		t.Fatalf("expected type=state, got %+v", env)
	}
}

func TestWebSocket_PushesCapturesAndStateChanges(t *testing.T) {
	mon := &mockMonitoring{
		state:   models.ApplianceState{Mode: "cool", Temperature: 16},
		updates: make(chan models.ApplianceState, 1),
	}
	capt := &mockCapture{captures: make(chan models.CaptureView, 1)}
	conn := dialWS(t, &service.Service{Monitoring: mon, Capture: capt}, "")

	if env := readEnvelope(t, conn); env.Type != wsTypeState {
		t.Fatalf("expected initial state, got %+v", env)
	}

	capt.captures <- models.CaptureView{Pulses: []uint32{3400, 1700, 430}, Frames: []string{"40"}}
	env := readEnvelope(t, conn)
	if env.Type != wsTypeCapture {
		t.Fatalf("expected capture, got %+v", env)
	}
	var view models.CaptureView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("unmarshal capture: %v", err)
	}
	if len(view.Pulses) != 3 || view.Frames[0] != "40" {
		t.Fatalf("unexpected capture: %+v", view)
	}

	mon.updates <- models.ApplianceState{Powered: true, Mode: "cool", Temperature: 17}
	env = readEnvelope(t, conn)
	var st models.ApplianceState
	_ = json.Unmarshal(env.Data, &st)
	if env.Type != wsTypeState || st.Temperature != 17 {
		t.Fatalf("expected pushed state, got %+v", env)
	}
}

func TestWebSocket_InitialGetStateError_Closes(t *testing.T) {
	mon := &mockMonitoring{err: errors.New("boom")}
	conn := dialWS(t, &service.Service{Monitoring: mon}, "")

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
