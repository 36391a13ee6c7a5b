package handler

import (
	"encoding/json"
	"net/http"

	"telecare-notifier/pkg/apperrors"
	"telecare-notifier/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps the error taxonomy onto the wire: 400 validation, 403
// auth, 404 not found, 500 everything else, always as {"error": message}.
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	appErr := apperrors.As(err)

	if appErr.HTTPStatus() >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Warn("Request rejected", "error", err)
	}

	respondJSON(w, appErr.HTTPStatus(), map[string]string{"error": appErr.Message})
}
