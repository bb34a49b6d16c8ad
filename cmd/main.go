package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	v1handlers "github.com/dharmikk7610/folio/internal/api/v1/handlers"
	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/internal/middleware"
	"github.com/dharmikk7610/folio/internal/services"
	"github.com/dharmikk7610/folio/internal/services/chat"
	"github.com/dharmikk7610/folio/pkg/logger"
)

func main() {
	logger.Init("", !strings.EqualFold(config.GetEnvOrDefault("LOG_FORMAT", "console"), "json"))

	cfg, err := config.LoadRelayConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load relay configuration")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(cfg, services.InitializeServices(cfg, nil).GetChatService()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("model", cfg.Model).Msg("Chat relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	<-ctx.Done()
	logger.Info(logger.APP, "Shutting down chat relay, waiting up to %s for open streams", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown did not complete")
	}
}

func setupRouter(cfg config.RelayConfig, chatService chat.Service) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recoverer, middleware.RequestID, middleware.AccessLog)
	v1handlers.RegisterV1Routes(r, cfg, chatService)
	return r
}
