package handlers

import (
	"errors"
	"net/http"

	"codetrack/api/internal/models"
	"codetrack/api/internal/repositories"
	"codetrack/api/internal/utils"
	"codetrack/api/internal/validation"

	"go.uber.org/zap"
)

// respondError maps store and validation errors onto the error envelope.
// notFound is the 404 message for the resource being handled.
func respondError(writer http.ResponseWriter, logger *zap.Logger, err error, notFound string) {
	var dupErr *repositories.DuplicateKeyError
	var valErr *validation.Error

	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		utils.JSON(writer, http.StatusBadRequest, models.ErrorEnvelope("Invalid ID format: "+invalidID(err)))
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSON(writer, http.StatusNotFound, models.ErrorEnvelope(notFound))
	case errors.As(err, &dupErr):
		utils.JSON(writer, http.StatusBadRequest, models.ErrorEnvelope(dupErr.Error()))
	case errors.As(err, &valErr):
		utils.JSON(writer, http.StatusBadRequest, models.ErrorEnvelope(valErr.Error()))
	default:
		logger.Error("request failed", zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorEnvelope("Server Error"))
	}
}

// invalidID pulls the offending id back out of a wrapped ErrInvalidID.
func invalidID(err error) string {
	msg := err.Error()
	prefix := repositories.ErrInvalidID.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

func badRequest(writer http.ResponseWriter, message string) {
	utils.JSON(writer, http.StatusBadRequest, models.ErrorEnvelope(message))
}
