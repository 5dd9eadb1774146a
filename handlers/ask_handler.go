package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dotnetIka/histqa/models"
	"github.com/dotnetIka/histqa/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AskRequest represents a question-answering request
type AskRequest struct {
	Question string `json:"question" validate:"required,min=1"`
}

// AskResponse represents the generated answer with pipeline latency
type AskResponse struct {
	Answer          string  `json:"answer"`
	Confidence      float64 `json:"confidence"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// AnswerService defines the interface for the question-answering pipeline
type AnswerService interface {
	Answer(ctx context.Context, question string) (models.AnswerResult, time.Duration, error)
}

// AskHandler handles question-answering HTTP requests
type AskHandler struct {
	service AnswerService
	logger  *zap.Logger
}

// NewAskHandler creates a new AskHandler
func NewAskHandler(service AnswerService, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAsk handles POST /api/v1/ask
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	var askReq AskRequest
	if err := json.NewDecoder(r.Body).Decode(&askReq); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&askReq); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	h.logger.Debug("answering question",
		zap.String("request_id", requestID),
		zap.Int("question_length", len(askReq.Question)))

	result, elapsed, err := h.service.Answer(r.Context(), askReq.Question)
	if err != nil {
		h.logger.Error("failed to answer question",
			zap.String("request_id", requestID),
			zap.Float64("duration_seconds", elapsed.Seconds()),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("question answered",
		zap.String("request_id", requestID),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("duration_seconds", elapsed.Seconds()))

	response := AskResponse{
		Answer:          result.Answer,
		Confidence:      result.Confidence,
		DurationSeconds: elapsed.Seconds(),
	}
	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
