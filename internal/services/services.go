package services

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/internal/domain/chat/models"
	"github.com/dharmikk7610/folio/internal/infrastructure/openai"
	"github.com/dharmikk7610/folio/internal/services/chat"
)

type Services struct {
	chatService *chat.Implementation
}

// InitializeServices builds the relay's service graph. httpClient may be nil, in
// which case a streaming friendly client is used for upstream calls.
func InitializeServices(cfg config.RelayConfig, httpClient *http.Client) *Services {
	log.Info().Str("upstream", cfg.UpstreamURL).Msg("Initializing upstream service")
	openAIService := openai.NewService(cfg, httpClient)

	systemPrompt := models.NewSystemPrompt(cfg.SystemPrompt)
	chatService := chat.NewService(openAIService, cfg.Model, systemPrompt)
	log.Info().Str("model", cfg.Model).Msg("Initializing chat service")

	return &Services{
		chatService: chatService,
	}
}

// GetChatService returns the chat service
func (s *Services) GetChatService() *chat.Implementation {
	return s.chatService
}
