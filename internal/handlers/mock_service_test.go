package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"controlling_aircon/internal/models"
	"controlling_aircon/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) EnsureOperator(username, password string) error { return nil }

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockAppliance returns the configured state for every command and records
// which one was called.
type mockAppliance struct {
	state models.ApplianceState
	err   error

	calls       []string
	lastTemp    int
	lastMode    string
	lastParams  service.StatusParams
	restoreErr  error
	restoreCall int
}

func (m *mockAppliance) do(name string) (models.ApplianceState, error) {
	m.calls = append(m.calls, name)
	return m.state, m.err
}

func (m *mockAppliance) PowerOn(context.Context) (models.ApplianceState, error) {
	return m.do("power_on")
}

func (m *mockAppliance) PowerOff(context.Context) (models.ApplianceState, error) {
	return m.do("power_off")
}

func (m *mockAppliance) TempUp(context.Context) (models.ApplianceState, error) {
	return m.do("temp_up")
}

func (m *mockAppliance) TempDown(context.Context) (models.ApplianceState, error) {
	return m.do("temp_down")
}

func (m *mockAppliance) TempSet(_ context.Context, temperature int) (models.ApplianceState, error) {
	m.lastTemp = temperature
	return m.do("temp_set")
}

func (m *mockAppliance) ModeSet(_ context.Context, mode string) (models.ApplianceState, error) {
	m.lastMode = mode
	return m.do("mode_set")
}

func (m *mockAppliance) Apply(_ context.Context, p service.StatusParams) (models.ApplianceState, error) {
	m.lastParams = p
	return m.do("apply")
}

func (m *mockAppliance) Restore(context.Context) error {
	m.restoreCall++
	return m.restoreErr
}

type mockMonitoring struct {
	state   models.ApplianceState
	err     error
	updates chan models.ApplianceState
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.ApplianceState, error) {
	return m.state, m.err
}

func (m *mockMonitoring) WatchState() (<-chan models.ApplianceState, func()) {
	if m.updates == nil {
		m.updates = make(chan models.ApplianceState)
	}
	return m.updates, func() {}
}

type mockEventLog struct {
	resp      []models.ApplianceEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ApplianceEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

type mockCapture struct {
	mu       sync.Mutex
	history  []models.CaptureView
	cleared  int
	captures chan models.CaptureView
}

func (m *mockCapture) Latest() (models.CaptureView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return models.CaptureView{}, false
	}
	return m.history[len(m.history)-1], true
}

func (m *mockCapture) History() []models.CaptureView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history
}

func (m *mockCapture) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	m.cleared++
}

func (m *mockCapture) WatchCaptures() (<-chan models.CaptureView, func()) {
	if m.captures == nil {
		m.captures = make(chan models.CaptureView)
	}
	return m.captures, func() {}
}

type mockTransmit struct {
	framesResp int
	err        error
	lastFrames []string
	lastPulses []uint32
}

func (m *mockTransmit) SendFrames(_ context.Context, frames []string) (int, error) {
	m.lastFrames = frames
	return m.framesResp, m.err
}

func (m *mockTransmit) SendPulses(_ context.Context, pulses []uint32) error {
	m.lastPulses = pulses
	return m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
