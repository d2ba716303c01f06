package handlers

import (
	"context"
	"errors"
	"net/http"

	"convert-capacity/internal/api/models"
	"convert-capacity/internal/data"

	"github.com/gin-gonic/gin"
)

// SeasonFetcher supplies a joined season series.
type SeasonFetcher interface {
	FetchAll(ctx context.Context, minSeason int) ([]data.RawSeason, error)
}

// SeasonHandler exposes the subgraph fetch.
type SeasonHandler struct {
	fetcher   SeasonFetcher
	minSeason int
}

// NewSeasonHandler creates a season handler
func NewSeasonHandler(f SeasonFetcher, minSeason int) *SeasonHandler {
	return &SeasonHandler{fetcher: f, minSeason: minSeason}
}

// ListSeasons handles GET /api/v1/seasons
func (h *SeasonHandler) ListSeasons(c *gin.Context) {
	var req models.SeasonsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	minSeason := h.minSeason
	if req.MinSeason > 0 {
		minSeason = req.MinSeason
	}

	seasons, err := h.fetcher.FetchAll(c.Request.Context(), minSeason)
	if err != nil {
		var se *data.SubgraphError
		if errors.As(err, &se) {
			respondComputeError(c, err)
			return
		}
		respondError(c, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}
	if seasons == nil {
		seasons = []data.RawSeason{}
	}
	c.JSON(http.StatusOK, models.SeasonsResponse{Count: len(seasons), Seasons: seasons})
}
