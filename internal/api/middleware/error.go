package middleware

import (
	"fmt"
	"net/http"

	"convert-capacity/internal/api/models"
	"convert-capacity/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware turns panics into a JSON 500.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		log.WithField("path", c.Request.URL.Path).Errorf("panic: %v", fmt.Sprint(recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
