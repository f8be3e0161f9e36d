package handlers

import (
	"errors"
	"net/http"

	"jammanage-backend/internal/services"
	"jammanage-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError maps service-layer errors onto HTTP statuses. Unknown
// errors are logged and answered with a generic 500 so internals stay out of
// responses.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var gateErr *services.PublishGateError
	if errors.As(err, &gateErr) {
		utils.PublishGateResponse(c, gateErr.Missing)
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		utils.ErrorResponse(c, http.StatusConflict, conflictErr.Message, nil)
		return
	}

	var renameErr *services.RenameInUseError
	if errors.As(err, &renameErr) {
		utils.ErrorResponse(c, http.StatusBadRequest, renameErr.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, services.ErrInvalidID):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid id", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password", nil)
	default:
		logger.Error("request failed",
			zap.String("requestId", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
