package chat

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/dharmikk7610/folio/internal/domain/chat/models"
	upstream "github.com/dharmikk7610/folio/internal/infrastructure/openai"
)

// maxErrorBody bounds how much of an upstream error body is read
const maxErrorBody = 64 * 1024

type Implementation struct {
	upstream     *upstream.Service
	model        string
	systemPrompt *models.SystemPrompt
}

func NewService(upstreamService *upstream.Service, model string, systemPrompt *models.SystemPrompt) *Implementation {
	if systemPrompt == nil {
		systemPrompt = models.DefaultSystemPrompt()
	}

	return &Implementation{
		upstream:     upstreamService,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// BuildRequest puts the system prompt in front of the transcript. The transcript
// is passed through as is: no filtering, reordering or truncation.
func (s *Implementation) BuildRequest(messages []models.ChatMessage) openai.ChatCompletionRequest {
	upstreamMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	upstreamMessages = append(upstreamMessages, s.systemPrompt.Message())
	upstreamMessages = append(upstreamMessages, models.ToOpenAI(messages)...)

	return openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: upstreamMessages,
		Stream:   true,
	}
}

func (s *Implementation) StreamChat(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error) {
	resp, err := s.upstream.CreateChatCompletionStream(ctx, s.BuildRequest(messages))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		// best effort: a body we cannot read still yields the mirrored status
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			log.Warn().Err(readErr).Int("status", resp.StatusCode).Msg("Failed to read upstream error body")
		}

		upstreamErr := newUpstreamError(resp.StatusCode, body)
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", upstreamErr.Body).
			Msg("Upstream returned an error")
		return nil, upstreamErr
	}

	return resp.Body, nil
}
