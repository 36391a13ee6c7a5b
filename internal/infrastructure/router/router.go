package router

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"telecare-notifier/internal/interface/handler"
	"telecare-notifier/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires every endpoint. The CORS middleware answers OPTIONS
// preflights for all routes; the broadcast route additionally requires the
// admin shared secret.
func SetupRoutes(
	mux *chi.Mux,
	adminSecret string,
	log logger.Logger,
	webhookHandler *handler.WebhookHandler,
	eventHandler *handler.EventHandler,
	broadcastHandler *handler.BroadcastHandler,
) {
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Admin-Secret"},
		MaxAge:         300,
	}))
	mux.Use(recoverer(log))

	mux.Post("/webhooks/liqpay", webhookHandler.HandleLiqPayCallback)
	mux.Post("/events/booking-status", eventHandler.HandleBookingStatus)
	mux.Post("/events/meet-link", eventHandler.HandleMeetLink)

	mux.Group(func(r chi.Router) {
		r.Use(requireAdminSecret(adminSecret, log))
		r.Post("/events/broadcast", broadcastHandler.HandleBroadcast)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
}

// recoverer turns a panicking request into a 500 {error} response instead of
// killing the pipeline.
func recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Recovered from handler panic", "panic", rec, "path", r.URL.Path)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func requireAdminSecret(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Admin-Secret")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				log.Warn("Broadcast request with bad admin secret", "remote", r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
