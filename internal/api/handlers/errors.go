package handlers

import (
	"errors"
	"net/http"

	"convert-capacity/internal/api/models"
	"convert-capacity/internal/data"
	"convert-capacity/internal/dataset"
	"convert-capacity/internal/ramp"
	"convert-capacity/internal/synthetic"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondComputeError maps pipeline failures onto HTTP statuses.
func respondComputeError(c *gin.Context, err error) {
	var se *data.SubgraphError
	switch {
	case errors.Is(err, ramp.ErrDomain):
		respondError(c, http.StatusUnprocessableEntity, "DOMAIN_ERROR", err.Error())
	case errors.Is(err, dataset.ErrSchemaConflict):
		respondError(c, http.StatusUnprocessableEntity, "SCHEMA_CONFLICT", err.Error())
	case errors.Is(err, synthetic.ErrInvalidStep):
		respondError(c, http.StatusBadRequest, "INVALID_SYNTHETIC_OPTIONS", err.Error())
	case errors.As(err, &se):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    se.Code,
				Message: se.Message,
				Details: map[string]interface{}{"upstream_status": se.StatusCode},
			},
		})
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
