package chat

import (
	"context"
	"io"

	"github.com/dharmikk7610/folio/internal/domain/chat/models"
)

// Service defines the interface for relaying a chat turn upstream
type Service interface {
	// StreamChat forwards the transcript behind the system prompt and returns the
	// upstream event stream. Non-2xx upstream answers come back as *UpstreamError.
	StreamChat(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error)
}
