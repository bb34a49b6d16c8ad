package chat

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// UpstreamError is a non-2xx answer from the completion provider
type UpstreamError struct {
	StatusCode int
	// Message is the provider's own error message when its body could be parsed
	Message string
	Body    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Upstream API error: %d", e.StatusCode)
}

func newUpstreamError(status int, body []byte) *UpstreamError {
	e := &UpstreamError{StatusCode: status, Body: string(body)}

	var envelope openai.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		e.Message = envelope.Error.Message
	}
	return e
}
