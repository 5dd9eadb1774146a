package handlers

import (
	"context"
	"net/http"

	"github.com/dotnetIka/histqa/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngestResponse reports the outcome of a corpus ingestion run
type IngestResponse struct {
	Message  string `json:"message"`
	Sections int    `json:"sections"`
}

// IngestService defines the interface for corpus ingestion
type IngestService interface {
	GenerateEmbeddings(ctx context.Context) (int, error)
}

// IngestHandler handles administrative corpus ingestion requests
type IngestHandler struct {
	service IngestService
	logger  *zap.Logger
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(service IngestService, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		service: service,
		logger:  logger,
	}
}

// HandleGenerateEmbeddings handles POST /api/v1/embeddings/generate
func (h *IngestHandler) HandleGenerateEmbeddings(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()

	h.logger.Info("starting corpus ingestion", zap.String("run_id", runID))

	sections, err := h.service.GenerateEmbeddings(r.Context())
	if err != nil {
		h.logger.Error("corpus ingestion failed",
			zap.String("run_id", runID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("corpus ingestion completed",
		zap.String("run_id", runID),
		zap.Int("sections", sections))

	response := IngestResponse{
		Message:  "Corpus documents processed and embeddings generated successfully",
		Sections: sections,
	}
	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write response",
			zap.String("run_id", runID),
			zap.Error(err))
	}
}
