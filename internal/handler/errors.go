package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tetianalytvynovska/tax-system/internal/middleware"
	"github.com/tetianalytvynovska/tax-system/internal/service"
	"github.com/tetianalytvynovska/tax-system/pkg/response"
)

// writeError translates a service error into an HTTP response. Internal
// errors are logged with the request id and answered with a generic message.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var se *service.Error
	if errors.As(err, &se) && se.Kind != service.KindInternal {
		c.JSON(statusFor(se.Kind), response.Error(se.Message))
		return
	}

	logger.Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, response.Error("Помилка сервера"))
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
