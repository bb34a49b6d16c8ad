package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	v1chat "github.com/dharmikk7610/folio/internal/api/v1/handlers/chat"
	v1mware "github.com/dharmikk7610/folio/internal/api/v1/middleware"
	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/internal/services/chat"
	"github.com/dharmikk7610/folio/pkg/httpext"
)

// ChatPaths are the mount points of the relay. The second matches the path
// browsers used when the relay ran as a hosted edge function.
var ChatPaths = []string{"/chat", "/functions/v1/chat"}

func RegisterV1Routes(router *mux.Router, cfg config.RelayConfig, chatService chat.Service) {
	// Public routes
	router.HandleFunc("/healthz", HandleHealth).Methods("GET")

	// Chat relay, CORS applies to every answer including auth failures
	completions := v1chat.NewCompletionsHandler(cfg, chatService)
	relay := v1mware.CORS(v1mware.RequireBearer(cfg.Auth)(completions))
	for _, path := range ChatPaths {
		router.Handle(path, relay).Methods("POST", "OPTIONS")
	}
}

// HandleHealth reports liveness only; it does not call the upstream.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
