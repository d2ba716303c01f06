package handlers

import (
	"net/http"
	"sort"

	"convert-capacity/internal/analysis"
	"convert-capacity/internal/api/models"
	"convert-capacity/internal/dataset"
	"convert-capacity/internal/logger"
	"convert-capacity/internal/pipeline"
	"convert-capacity/internal/ramp"
	"convert-capacity/internal/synthetic"

	"github.com/gin-gonic/gin"
)

// AnalyzeHandler runs the capacity pipeline over a posted series.
type AnalyzeHandler struct {
	params    pipeline.Params
	synthetic synthetic.Options
	log       *logger.Logger
}

// NewAnalyzeHandler creates a handler with the server's default ladders.
func NewAnalyzeHandler(p pipeline.Params, opt synthetic.Options, log *logger.Logger) *AnalyzeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyzeHandler{params: p, synthetic: opt, log: log}
}

// Analyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	p := h.params
	if len(req.Divisors) > 0 {
		p.Divisors = req.Divisors
	}
	if len(req.Deltas) > 0 {
		p.Deltas = make([]ramp.Delta, 0, len(req.Deltas))
		for _, d := range req.Deltas {
			p.Deltas = append(p.Deltas, ramp.Delta(d))
		}
	}
	if err := p.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_LADDER", err.Error())
		return
	}

	sort.SliceStable(req.Seasons, func(i, j int) bool {
		return req.Seasons[i].Season < req.Seasons[j].Season
	})

	res, err := pipeline.New(h.log).Run(req.Seasons, p)
	if err != nil {
		h.log.WithError(err).Warn("analyze failed")
		respondComputeError(c, err)
		return
	}

	summary := models.AnalyzeSummary{
		Seasons:      len(res.Rows),
		FinalExtreme: res.FinalExtreme,
		NewRecords:   analysis.NewRecords(res.Rows),
		PriceStats:   analysis.ComputePriceStats(analysis.Prices(req.Seasons)),
	}
	if summary.NewRecords == nil {
		summary.NewRecords = []analysis.Record{}
	}
	if n := len(res.Rows); n > 0 {
		last := res.Rows[n-1]
		for _, s := range p.Divisors {
			summary.FinalCapacity = append(summary.FinalCapacity, models.DivisorCapacity{Divisor: s, Capacity: last.Capacity[s]})
		}
	}

	var table *dataset.Table
	if req.Synthetic != nil && req.Synthetic.Enabled {
		opt := h.synthetic
		if req.Synthetic.MinPrice != 0 {
			opt.MinPrice = req.Synthetic.MinPrice
		}
		if req.Synthetic.Step != 0 {
			opt.Step = req.Synthetic.Step
		}
		ext, err := synthetic.Extend(res.Rows, p, opt)
		if err != nil {
			respondComputeError(c, err)
			return
		}
		table = ext.Table
		summary.Synthetic = &ext.Meta
	} else if req.IncludeRows {
		table, err = pipeline.ToTable(res.Rows, p, false)
		if err != nil {
			respondComputeError(c, err)
			return
		}
	}

	resp := models.AnalyzeResponse{Status: "completed", Summary: summary}
	if req.IncludeRows && table != nil {
		resp.Columns = table.Schema().Names()
		resp.Rows = table.Records()
	}

	h.log.Infof("analyzed %d seasons (%d divisors, %d deltas)", len(res.Rows), len(p.Divisors), len(p.Deltas))
	c.JSON(http.StatusOK, resp)
}
