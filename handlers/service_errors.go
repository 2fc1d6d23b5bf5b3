package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
	"github.com/yshmodi/eiregate/utils"
)

// HandleServiceError maps domain errors to HTTP responses.
// Unrecognized errors become 500 without leaking internals.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	switch {
	case services.IsNotFoundError(err):
		_ = utils.WriteNotFound(w, err.Error())

	case services.IsValidationError(err):
		_ = utils.WriteBadRequest(w, err.Error(), services.GetErrorDetails(err))

	case services.IsUnauthorizedError(err):
		_ = utils.WriteUnauthorized(w, err.Error())

	case services.IsRateLimitError(err):
		_ = utils.WriteTooManyRequests(w, err.Error(), nil)

	case services.IsExhaustedError(err):
		// Every configured provider failed in sequence
		logger.Error("provider fallback exhausted", zap.Error(err))
		_ = utils.WriteError(w, http.StatusServiceUnavailable,
			"All LLM providers failed. Please try again later.", nil)

	case services.IsUnavailableError(err):
		_ = utils.WriteError(w, http.StatusServiceUnavailable, err.Error(), nil)

	case services.IsExternalError(err):
		logger.Error("upstream provider error", zap.Error(err))
		_ = utils.WriteError(w, http.StatusBadGateway, "Upstream provider error", nil)

	case services.IsInternalError(err):
		logger.Error("internal service error", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")

	default:
		logger.Error("unhandled service error", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
	}
}

// HandleValidationError writes a 400 with per-field details when the error
// came from struct validation, or a plain 400 otherwise
func HandleValidationError(w http.ResponseWriter, err error) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for field, msg := range fields {
			details[field] = msg
		}
		_ = utils.WriteBadRequest(w, "Validation failed", details)
		return
	}
	_ = utils.WriteBadRequest(w, err.Error(), nil)
}
