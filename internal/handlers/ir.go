package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusCleared = "cleared"
	statusQueued  = "queued"

	errNoCapture   = "no capture yet"
	errSendPayload = "exactly one of frames or pulses is required"
)

// SendRequest carries either hex frames or a raw mark/space list.
type SendRequest struct {
	Frames []string `json:"frames,omitempty" example:"40 00 14 80 43"`
	Pulses []uint32 `json:"pulses,omitempty"`
}

// @Summary      List captured sequences
// @Tags         ir
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, captures"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/ir/captures [get]
// @Security     BearerAuth
func (h *Handler) listCaptures(c *gin.Context) {
	captures := h.services.Capture.History()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(captures),
		"captures": captures,
	})
}

// @Summary      Latest captured sequence
// @Tags         ir
// @Produce      json
// @Success      200  {object}  models.CaptureView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/ir/captures/latest [get]
// @Security     BearerAuth
func (h *Handler) latestCapture(c *gin.Context) {
	view, ok := h.services.Capture.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoCapture})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Clear capture history
// @Tags         ir
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/ir/captures [delete]
// @Security     BearerAuth
func (h *Handler) clearCaptures(c *gin.Context) {
	h.services.Capture.ClearHistory()
	c.JSON(http.StatusOK, gin.H{"status": statusCleared})
}

// @Summary      Send IR frames or raw pulses
// @Description  Frames are hex strings encoded as AEHA; pulses are microseconds starting and ending with a mark.
// @Tags         ir
// @Accept       json
// @Produce      json
// @Param        body  body      SendRequest  true  "Frames or pulses"
// @Success      200   {object}  map[string]interface{}  "status, pulses"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/ir/send [post]
// @Security     BearerAuth
func (h *Handler) sendIR(c *gin.Context) {
	var req SendRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if (len(req.Frames) == 0) == (len(req.Pulses) == 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errSendPayload})
		return
	}

	ctx := c.Request.Context()
	if len(req.Frames) > 0 {
		n, err := h.services.Transmit.SendFrames(ctx, req.Frames)
		if err != nil {
			h.commandError(c, "ir_send_frames_failed", err, "frames", len(req.Frames))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusQueued, "pulses": n})
		return
	}

	if err := h.services.Transmit.SendPulses(ctx, req.Pulses); err != nil {
		h.commandError(c, "ir_send_pulses_failed", err, "pulses", len(req.Pulses))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusQueued, "pulses": len(req.Pulses)})
}
