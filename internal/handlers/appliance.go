package handlers

import (
	"context"
	"errors"
	"net/http"

	"controlling_aircon/internal/appliance"
	"controlling_aircon/internal/ir/transmit"
	"controlling_aircon/internal/models"
	"controlling_aircon/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK          = "ok"
	statusPoweredOn   = "powered_on"
	statusPoweredOff  = "powered_off"
	statusTemperature = "temperature_set"
	statusModeSet     = "mode_set"
	statusApplied     = "status_applied"

	errGetState        = "failed to load state"
	errCommand         = "failed to send command"
	errTransmitter     = "transmitter unavailable"
	errInvalidBodyPref = "invalid body: "
	errEmptyStatus     = "at least one of powered, mode, temperature is required"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// commandError maps appliance and transmitter failures onto HTTP codes.
func (h *Handler) commandError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, appliance.ErrTemperatureRange),
		errors.Is(err, appliance.ErrUnknownMode),
		errors.Is(err, appliance.ErrTemperatureSame):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, appliance.ErrNoSequence):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidFrame), errors.Is(err, service.ErrInvalidPulses):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, transmit.ErrStopped), errors.Is(err, context.DeadlineExceeded):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errTransmitter, logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errCommand, logKey, err, kv...)
	}
}

func respondWithState(c *gin.Context, status string, st models.ApplianceState) {
	c.JSON(http.StatusOK, gin.H{"status": status, "state": st})
}

type powerRequest struct {
	On *bool `json:"on" binding:"required"`
}

type temperatureRequest struct {
	Temperature *int `json:"temperature" binding:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// StatusRequest is the desired appliance status; omitted fields are kept.
type StatusRequest struct {
	Powered     *bool   `json:"powered,omitempty" example:"true"`
	Mode        *string `json:"mode,omitempty" example:"cool"`
	Temperature *int    `json:"temperature,omitempty" example:"24"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get appliance state
// @Tags         ac
// @Produce      json
// @Success      200  {object}  models.ApplianceState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/ac/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "ac_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Power on or off
// @Tags         ac
// @Accept       json
// @Produce      json
// @Param        body  body      powerRequest  true  "Power payload"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/ac/power [post]
// @Security     BearerAuth
func (h *Handler) setPower(c *gin.Context) {
	var req powerRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	ctx := c.Request.Context()
	op, status := h.services.Appliance.PowerOff, statusPoweredOff
	if *req.On {
		op, status = h.services.Appliance.PowerOn, statusPoweredOn
	}
	st, err := op(ctx)
	if err != nil {
		h.commandError(c, "ac_power_failed", err)
		return
	}
	respondWithState(c, status, st)
}

// @Summary      Raise temperature by one step
// @Tags         ac
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/ac/temperature/up [post]
// @Security     BearerAuth
func (h *Handler) tempUp(c *gin.Context) {
	st, err := h.services.Appliance.TempUp(c.Request.Context())
	if err != nil {
		h.commandError(c, "ac_temp_up_failed", err)
		return
	}
	respondWithState(c, statusTemperature, st)
}

// @Summary      Lower temperature by one step
// @Tags         ac
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/ac/temperature/down [post]
// @Security     BearerAuth
func (h *Handler) tempDown(c *gin.Context) {
	st, err := h.services.Appliance.TempDown(c.Request.Context())
	if err != nil {
		h.commandError(c, "ac_temp_down_failed", err)
		return
	}
	respondWithState(c, statusTemperature, st)
}

// @Summary      Set temperature
// @Description  Setting the current temperature is accepted and sends nothing.
// @Tags         ac
// @Accept       json
// @Produce      json
// @Param        body  body      temperatureRequest  true  "Temperature payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/ac/temperature [put]
// @Security     BearerAuth
func (h *Handler) setTemperature(c *gin.Context) {
	var req temperatureRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.Appliance.TempSet(c.Request.Context(), *req.Temperature)
	if err != nil {
		h.commandError(c, "ac_temp_set_failed", err, "temperature", *req.Temperature)
		return
	}
	respondWithState(c, statusTemperature, st)
}

// @Summary      Set mode
// @Tags         ac
// @Accept       json
// @Produce      json
// @Param        body  body      modeRequest  true  "Mode payload (auto, warm, dry, cool, fan)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/ac/mode [put]
// @Security     BearerAuth
func (h *Handler) setMode(c *gin.Context) {
	var req modeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.Appliance.ModeSet(c.Request.Context(), req.Mode)
	if err != nil {
		h.commandError(c, "ac_mode_set_failed", err, "mode", req.Mode)
		return
	}
	respondWithState(c, statusModeSet, st)
}

// @Summary      Apply desired status
// @Description  Moves mode, temperature and power in one transmission. Omitted fields are kept.
// @Tags         ac
// @Accept       json
// @Produce      json
// @Param        body  body      StatusRequest  true  "Desired status"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/ac/status [put]
// @Security     BearerAuth
func (h *Handler) setStatus(c *gin.Context) {
	var req StatusRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if req.Powered == nil && req.Mode == nil && req.Temperature == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyStatus})
		return
	}
	st, err := h.services.Appliance.Apply(c.Request.Context(), service.StatusParams{
		Powered:     req.Powered,
		Mode:        req.Mode,
		Temperature: req.Temperature,
	})
	if err != nil {
		h.commandError(c, "ac_status_failed", err)
		return
	}
	respondWithState(c, statusApplied, st)
}
