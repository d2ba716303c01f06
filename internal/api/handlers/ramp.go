package handlers

import (
	"net/http"

	"convert-capacity/internal/api/models"
	"convert-capacity/internal/model"
	"convert-capacity/internal/pipeline"
	"convert-capacity/internal/ramp"

	"github.com/gin-gonic/gin"
)

// RampHandler serves the closed-form ramp model and the configured ladders.
type RampHandler struct {
	params pipeline.Params
}

// NewRampHandler creates a ramp handler
func NewRampHandler(p pipeline.Params) *RampHandler {
	return &RampHandler{params: p}
}

// Rates handles GET /api/v1/ramp
func (h *RampHandler) Rates(c *gin.Context) {
	var req models.RampRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	d := ramp.Delta(*req.Delta)
	r, err := ramp.Compute(*req.Price, d)
	if err != nil {
		respondComputeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RampResponse{
		Price:   *req.Price,
		Delta:   *req.Delta,
		Label:   d.Label(),
		Rates:   r.Rounded(),
		Columns: d.Columns(),
	})
}

// Ladders handles GET /api/v1/ladders
func (h *RampHandler) Ladders(c *gin.Context) {
	resp := models.LaddersResponse{
		Divisors: make([]models.DivisorInfo, 0, len(h.params.Divisors)),
		Deltas:   make([]models.DeltaInfo, 0, len(h.params.Deltas)),
	}
	for _, s := range h.params.Divisors {
		resp.Divisors = append(resp.Divisors, models.DivisorInfo{S: s, Column: model.CapacityColumn(s)})
	}
	for _, d := range h.params.Deltas {
		resp.Deltas = append(resp.Deltas, models.DeltaInfo{
			Delta:   float64(d),
			Percent: d.Percent(),
			Label:   d.Label(),
			Columns: d.Columns(),
		})
	}
	c.JSON(http.StatusOK, resp)
}
