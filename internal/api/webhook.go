package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	logx "github.com/solartech-poc/solarbot/pkg/logger"
)

// TurnHandler is the agent surface the transport adapter needs.
type TurnHandler interface {
	HandleTurn(ctx context.Context, externalID, message string) (string, error)
}

// WebhookRequest mirrors the WhatsApp-style inbound payload. The field names
// are part of the wire contract with the terminal simulator.
type WebhookRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// WebhookResponse is the flat reply object; the simulator reads "response".
type WebhookResponse struct {
	Response string `json:"response"`
}

// unavailableReply hides internal failure kinds behind safe generic text.
const unavailableReply = "Lo siento, estamos teniendo un problema técnico. Por favor intenta de nuevo en unos minutos."

// NewRouter builds the HTTP front door: one webhook route plus a health probe.
func NewRouter(agent TurnHandler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Post("/webhook", handleWebhook(agent))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

func handleWebhook(agent TurnHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WebhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Message) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone and message are required"})
			return
		}

		reply, err := agent.HandleTurn(r.Context(), req.Phone, req.Message)
		if err != nil {
			// Internal error kinds never reach the caller verbatim; the user
			// just gets a retry-flavored reply.
			logx.Error().Err(err).Str("phone", req.Phone).Msg("turn failed")
			writeJSON(w, http.StatusOK, WebhookResponse{Response: unavailableReply})
			return
		}

		writeJSON(w, http.StatusOK, WebhookResponse{Response: reply})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}
