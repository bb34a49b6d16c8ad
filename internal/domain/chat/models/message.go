package models

import (
	"github.com/sashabaranov/go-openai"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleSystem    Role = openai.ChatMessageRoleSystem
	RoleUser      Role = openai.ChatMessageRoleUser
	RoleAssistant Role = openai.ChatMessageRoleAssistant
)

// ChatMessage represents a single message in a chat conversation
type ChatMessage struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the body the relay accepts: the whole transcript, oldest first
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,dive"`
}

// ToOpenAI converts a transcript to upstream messages without reordering or filtering.
func ToOpenAI(messages []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
