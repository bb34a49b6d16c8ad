package services

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/internal/domain/chat/models"
)

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		wantPrompt string
	}{
		{"built-in prompt", "", models.DefaultSystemPrompt().String()},
		{"prompt override", "Only talk about Go.", "Only talk about Go."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.RelayConfig{
				UpstreamURL:  config.DefaultUpstreamURL,
				UpstreamKey:  "sk-or-test",
				Model:        "test/model",
				SystemPrompt: tt.prompt,
			}

			s := InitializeServices(cfg, nil)
			require.NotNil(t, s.GetChatService())

			req := s.GetChatService().BuildRequest([]models.ChatMessage{{Role: models.RoleUser, Content: "hi"}})
			assert.Equal(t, "test/model", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
			assert.Equal(t, tt.wantPrompt, req.Messages[0].Content)
		})
	}
}
