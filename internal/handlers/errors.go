package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/dto"
	"github.com/SscSPs/arap_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps the ledger error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrMissingSaleReference),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAmountExceedsBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNetworkFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body and logs at a level matching the status.
// Server-side failures never leak their cause to the client.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromContext(c)
	status := statusForError(err)

	body := dto.ErrorResponse{Error: err.Error(), Code: apperrors.Code(err)}
	switch status {
	case http.StatusInternalServerError:
		logger.Error(msg, slog.String("error", err.Error()))
		body.Error = msg
	case http.StatusServiceUnavailable:
		logger.Error(msg, slog.String("error", err.Error()))
		body.Error = "ledger store unavailable, retry later"
	default:
		logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request: " + err.Error(),
		Code:  apperrors.Code(apperrors.ErrValidation),
	})
}
