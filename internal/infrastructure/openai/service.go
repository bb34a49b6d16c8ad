package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/dharmikk7610/folio/internal/config"
)

// Service talks to an OpenAI compatible chat completions endpoint (OpenRouter by
// default). It returns the raw HTTP response so the event stream can be relayed
// byte for byte instead of being re-encoded by a client library.
type Service struct {
	httpClient *http.Client
	endpoint   string
	key        string
}

// NewStreamingHTTPClient has no overall timeout: streams last as long as the
// model keeps talking and cancellation comes from the request context.
func NewStreamingHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 60 * time.Second,
		},
	}
}

func NewService(cfg config.RelayConfig, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = NewStreamingHTTPClient()
	}

	return &Service{
		httpClient: httpClient,
		endpoint:   cfg.UpstreamURL,
		key:        cfg.UpstreamKey,
	}
}

// CreateChatCompletionStream posts req with streaming forced on. The caller owns
// the response body, whatever the status code.
func (s *Service) CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*http.Response, error) {
	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.key)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	log.Debug().
		Str("endpoint", s.endpoint).
		Str("model", req.Model).
		Int("message_count", len(req.Messages)).
		Msg("Forwarding chat completion upstream")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	return resp, nil
}
