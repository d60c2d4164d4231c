package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agro-analytics/internal/service"
)

// respondError traduce errores de servicio a status y cuerpo {error}. Nunca expone la causa.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		return http.StatusBadRequest, "invalid or expired code"
	case errors.Is(err, service.ErrDuplicateAccount):
		return http.StatusBadRequest, "account already exists"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusBadRequest, "user not found"
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "too many requests"
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
