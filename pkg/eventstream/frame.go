package eventstream

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	// DataPrefix starts every payload-carrying line
	DataPrefix = "data: "
	// DoneToken is the payload of the line that ends a completion stream
	DoneToken = "[DONE]"
)

// FrameKind classifies a single line of the event stream
type FrameKind int

const (
	// FrameSkip covers blank lines, comments and anything that is not a data line
	FrameSkip FrameKind = iota
	// FrameFragment is a data line whose JSON parsed; Text may be empty
	FrameFragment
	// FrameDone is the termination line
	FrameDone
	// FrameUnparseable is a data line whose payload is not valid JSON yet
	FrameUnparseable
)

func (k FrameKind) String() string {
	switch k {
	case FrameSkip:
		return "skip"
	case FrameFragment:
		return "fragment"
	case FrameDone:
		return "done"
	case FrameUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// Frame is the parsed form of one line
type Frame struct {
	Kind FrameKind
	Text string
}

// ParseLine classifies a line (without its trailing newline) and extracts the
// assistant text fragment from data lines.
func ParseLine(line string) Frame {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") {
		return Frame{Kind: FrameSkip}
	}
	if !strings.HasPrefix(line, DataPrefix) {
		return Frame{Kind: FrameSkip}
	}

	payload := strings.TrimSpace(line[len(DataPrefix):])
	if payload == DoneToken {
		return Frame{Kind: FrameDone}
	}

	text, ok := deltaContent([]byte(payload))
	if !ok {
		return Frame{Kind: FrameUnparseable}
	}
	return Frame{Kind: FrameFragment, Text: text}
}

// deltaContent pulls choices[0].delta.content out of a chunk. A well-formed payload
// with an unexpected shape still counts as parsed, it just carries no text.
func deltaContent(payload []byte) (string, bool) {
	if !json.Valid(payload) {
		return "", false
	}

	var chunk openai.ChatCompletionStreamResponse
	if err := json.Unmarshal(payload, &chunk); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return "", true
		}
	}

	if len(chunk.Choices) == 0 {
		return "", true
	}
	return chunk.Choices[0].Delta.Content, true
}
