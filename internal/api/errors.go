package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/velo/internal/domain"
	"github.com/alexanderramin/velo/internal/repository"
)

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var infeasible *domain.InfeasibleGoalError
	switch {
	case errors.As(err, &infeasible):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":       err.Error(),
			"total_weeks": infeasible.TotalWeeks,
			"min_weeks":   infeasible.MinWeeks,
		})
	case errors.Is(err, domain.ErrInvalidProfile), errors.Is(err, domain.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPlanningConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case domain.IsRetryable(err):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}
