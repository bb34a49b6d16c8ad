package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	v1mware "github.com/dharmikk7610/folio/internal/api/v1/middleware"
	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/internal/domain/chat/models"
	"github.com/dharmikk7610/folio/internal/services/chat"
	"github.com/dharmikk7610/folio/internal/services/proxy"
	"github.com/dharmikk7610/folio/pkg/httpext"
)

// maxRequestBody caps the JSON transcript a client may post
const maxRequestBody = 1 << 20

// CompletionsHandler relays a chat transcript upstream and streams the raw event
// stream back to the caller.
type CompletionsHandler struct {
	service   chat.Service
	configErr error
	// use a single instance of Validate, it caches struct info
	validate *validator.Validate
}

// NewCompletionsHandler checks cfg once. A broken configuration does not stop the
// handler from being built; it answers every request with a 500 instead.
func NewCompletionsHandler(cfg config.RelayConfig, service chat.Service) *CompletionsHandler {
	configErr := cfg.Validate()
	if configErr != nil {
		log.Error().Err(configErr).Msg("Chat relay is misconfigured")
	}

	return &CompletionsHandler{
		service:   service,
		configErr: configErr,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *CompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		httpext.JsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.configErr != nil {
		httpext.JsonError(w, h.configErr.Error(), http.StatusInternalServerError)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, fmt.Sprintf("Invalid request format: %v", err), http.StatusInternalServerError)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	event := log.Info().
		Int("message_count", len(req.Messages)).
		Str("client_ip", r.RemoteAddr)
	if claims := v1mware.GetClaims(r); claims != nil {
		event = event.Str("role", claims.Role)
	}
	event.Msg("Received chat request")

	body, err := h.service.StreamChat(r.Context(), req.Messages)
	if err != nil {
		h.writeStreamError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	res, err := proxy.Pipe(r.Context(), w, body)
	switch {
	case errors.Is(err, proxy.ErrClientGone):
		log.Debug().Err(err).Int64("bytes", res.Bytes).Msg("Client left before the stream finished")
	case err != nil:
		// headers are already sent, the stream just ends early
		log.Error().Err(err).Int64("bytes", res.Bytes).Msg("Upstream stream failed mid-response")
	default:
		log.Info().
			Int64("bytes", res.Bytes).
			Int("chunks", res.Chunks).
			Msg("Chat stream relayed")
	}
}

func (h *CompletionsHandler) writeStreamError(w http.ResponseWriter, r *http.Request, err error) {
	var upstreamErr *chat.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		httpext.JsonErrorWithDetails(w, upstreamErr.StatusCode, httpext.ErrorResponse{
			Error:            upstreamErr.Error(),
			ErrorDescription: upstreamErr.Message,
		})
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		log.Debug().Err(err).Msg("Client cancelled before the upstream answered")
	default:
		log.Error().Err(err).Msg("Failed to reach upstream")
		httpext.JsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
