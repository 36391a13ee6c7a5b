package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/usecase"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/logger"
	"telecare-notifier/pkg/metrics"
)

// BroadcastHandler receives admin broadcast requests. The shared-secret gate
// is enforced by router middleware before this handler runs.
type BroadcastHandler struct {
	processor *usecase.EventProcessor
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewBroadcastHandler creates a new broadcast handler
func NewBroadcastHandler(processor *usecase.EventProcessor, metrics *metrics.Metrics, logger logger.Logger) *BroadcastHandler {
	return &BroadcastHandler{
		processor: processor,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleBroadcast handles admin notification fan-out
func (h *BroadcastHandler) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.HandlerDuration.Observe(time.Since(start).Seconds())
	}()

	var event entity.BroadcastEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, h.logger, apperrors.Validation("malformed JSON body"))
		return
	}
	if err := validateStruct(&event); err != nil {
		respondError(w, h.logger, err)
		return
	}

	recipients, err := h.processor.ProcessBroadcast(r.Context(), &event)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"recipients": recipients,
	})
}
