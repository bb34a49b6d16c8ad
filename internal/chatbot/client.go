package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/internal/domain/chat/models"
	"github.com/dharmikk7610/folio/pkg/eventstream"
	"github.com/dharmikk7610/folio/pkg/httpext"
)

// maxErrorBody bounds how much of a relay error body is read
const maxErrorBody = 64 * 1024

// RelayError is a failed relay answer: a non-2xx status, or a response with no body at all.
type RelayError struct {
	Status int
	// Message is the relay's "error" field, when the body carried one
	Message string
}

func (e *RelayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed (%d)", e.Status)
}

// Client posts transcripts to the chat relay and decodes the streamed reply.
type Client struct {
	httpClient     *http.Client
	relayURL       string
	publishableKey string
}

func NewClient(cfg config.ClientConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		// no overall timeout, a reply streams for as long as the model talks
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient:     httpClient,
		relayURL:       cfg.RelayURL,
		publishableKey: cfg.PublishableKey,
	}
}

// Stream sends the transcript and calls emit with every text fragment in arrival
// order. It returns once the stream ends, fails or ctx is cancelled.
func (c *Client) Stream(ctx context.Context, messages []models.ChatMessage, emit func(string)) (eventstream.Summary, error) {
	body, err := json.Marshal(models.ChatRequest{Messages: messages})
	if err != nil {
		return eventstream.Summary{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewReader(body))
	if err != nil {
		return eventstream.Summary{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.publishableKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.publishableKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eventstream.Summary{}, err
	}
	if resp.Body == nil {
		return eventstream.Summary{}, &RelayError{Status: resp.StatusCode}
	}
	defer resp.Body.Close()

	// an empty 2xx body is a stream with no fragments, not a failure
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return eventstream.Summary{}, readRelayError(resp)
	}

	log.Debug().Int("status", resp.StatusCode).Int("message_count", len(messages)).Msg("Relay stream opened")
	return eventstream.NewDecoder(resp.Body).Decode(emit)
}

func readRelayError(resp *http.Response) *RelayError {
	relayErr := &RelayError{Status: resp.StatusCode}

	// best effort: a body that is not our envelope leaves only the status
	var envelope httpext.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&envelope); err == nil {
		relayErr.Message = envelope.Error
	}

	log.Warn().Int("status", resp.StatusCode).Str("error", relayErr.Message).Msg("Relay request failed")
	return relayErr
}
