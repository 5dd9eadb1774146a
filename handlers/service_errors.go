package handlers

import (
	"net/http"

	"github.com/dotnetIka/histqa/services"
	"github.com/dotnetIka/histqa/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. Upstream
// collaborator failures surface as 502, validation as 400, everything
// else as a generic 500 with no internals beyond the message.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	switch {
	case services.IsValidationError(err):
		if werr := utils.WriteBadRequest(w, err.Error(), services.GetErrorDetails(err)); werr != nil {
			logger.Error("failed to write bad request response", zap.Error(werr))
		}

	case services.IsQuestionAnsweringError(err):
		// The pipeline error carries the causal failure; report it as an
		// upstream failure when the cause is one, otherwise stay generic.
		if services.IsUpstreamError(err) {
			if werr := utils.WriteBadGateway(w, err.Error()); werr != nil {
				logger.Error("failed to write bad gateway response", zap.Error(werr))
			}
			return
		}
		logger.Error("question answering failed with internal cause", zap.Error(err))
		if werr := utils.WriteInternalServerError(w, "An internal error occurred"); werr != nil {
			logger.Error("failed to write internal error response", zap.Error(werr))
		}

	case services.IsUpstreamError(err):
		if werr := utils.WriteBadGateway(w, err.Error()); werr != nil {
			logger.Error("failed to write bad gateway response", zap.Error(werr))
		}

	case services.IsInternalError(err):
		logger.Error("internal server error", zap.Error(err))
		if werr := utils.WriteInternalServerError(w, "An internal error occurred"); werr != nil {
			logger.Error("failed to write internal error response", zap.Error(werr))
		}

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if werr := utils.WriteInternalServerError(w, "An unexpected error occurred"); werr != nil {
			logger.Error("failed to write internal error response", zap.Error(werr))
		}
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		if werr := utils.WriteBadRequest(w, "Validation failed", details); werr != nil {
			logger.Error("failed to write validation error response", zap.Error(werr))
		}
		return
	}

	if werr := utils.WriteBadRequest(w, err.Error(), nil); werr != nil {
		logger.Error("failed to write validation error response", zap.Error(werr))
	}
}
