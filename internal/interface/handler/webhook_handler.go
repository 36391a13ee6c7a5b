package handler

import (
	"net/http"
	"time"

	"telecare-notifier/internal/usecase"
	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/logger"
	"telecare-notifier/pkg/metrics"
)

// WebhookHandler receives the payment gateway's server-to-server callbacks.
type WebhookHandler struct {
	processor *usecase.PaymentProcessor
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(processor *usecase.PaymentProcessor, metrics *metrics.Metrics, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleLiqPayCallback handles POST form callbacks carrying data+signature.
// The gateway only needs a 200; notification problems never change the
// response.
func (h *WebhookHandler) HandleLiqPayCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.HandlerDuration.Observe(time.Since(start).Seconds())
	}()

	if err := r.ParseForm(); err != nil {
		respondError(w, h.logger, apperrors.Validation("malformed form body"))
		return
	}

	data := r.PostFormValue("data")
	signature := r.PostFormValue("signature")

	result, err := h.processor.ProcessCallback(r.Context(), data, signature)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"paymentStatus": result.PaymentStatus,
	})
}
