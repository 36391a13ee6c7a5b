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

// EventHandler receives application-originated booking events.
type EventHandler struct {
	processor *usecase.EventProcessor
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(processor *usecase.EventProcessor, metrics *metrics.Metrics, logger logger.Logger) *EventHandler {
	return &EventHandler{
		processor: processor,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleBookingStatus handles booking confirmed/rejected events
func (h *EventHandler) HandleBookingStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.HandlerDuration.Observe(time.Since(start).Seconds())
	}()

	var event entity.BookingStatusEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, h.logger, apperrors.Validation("malformed JSON body"))
		return
	}
	if err := validateStruct(&event); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.processor.ProcessBookingStatus(r.Context(), &event); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  event.Booking.Status,
	})
}

// HandleMeetLink handles meeting-link update events
func (h *EventHandler) HandleMeetLink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.HandlerDuration.Observe(time.Since(start).Seconds())
	}()

	var event entity.MeetLinkEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, h.logger, apperrors.Validation("malformed JSON body"))
		return
	}
	if err := validateStruct(&event); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.processor.ProcessMeetLink(r.Context(), &event); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
