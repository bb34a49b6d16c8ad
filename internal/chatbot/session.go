package chatbot

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dharmikk7610/folio/internal/domain/chat/models"
	"github.com/dharmikk7610/folio/pkg/eventstream"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("a message is already being sent")
)

const (
	// FallbackReply is appended when a turn streams no text at all
	FallbackReply = "Sorry, I couldn't generate a response."

	errorPrefix    = "Oops! "
	genericFailure = "Something went wrong. Please try again."
)

// Streamer sends a transcript to the relay and emits the reply fragments.
type Streamer interface {
	Stream(ctx context.Context, messages []models.ChatMessage, emit func(string)) (eventstream.Summary, error)
}

// pendingReply is the assistant message being streamed in the current turn.
// index points at the transcript entry it owns.
type pendingReply struct {
	index int
	text  strings.Builder
}

// Session holds one conversation. Transcript mutations are serialised by mu and
// at most one send is in flight.
type Session struct {
	relay Streamer

	mu         sync.Mutex
	transcript []models.ChatMessage
	draft      string
	inFlight   bool
	pending    *pendingReply
	cancel     context.CancelFunc
	observers  []func([]models.ChatMessage)
}

// NewSession starts a conversation. A non-empty greeting becomes the first
// assistant message and is sent to the relay with every turn.
func NewSession(relay Streamer, greeting string) *Session {
	s := &Session{relay: relay}
	if greeting != "" {
		s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleAssistant, Content: greeting})
	}
	return s
}

// OnUpdate registers fn to receive a copy of the transcript after every change.
// fn runs on the goroutine that made the change and must not call SendMessage.
func (s *Session) OnUpdate(fn func([]models.ChatMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// SetDraft records unsent input. It may be called while a send is in flight.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// InFlight reports whether a send is waiting on the relay
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Streaming reports whether the current turn has produced text yet
func (s *Session) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Transcript returns a copy of the conversation, oldest first
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Abort cancels the send in flight, if any. The turn then ends like any other
// transport failure.
func (s *Session) Abort() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SendMessage appends text as a user message and streams the assistant reply
// into the transcript. Relay and transport failures become an assistant message
// and are not returned; only a rejected send returns an error.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.inFlight = true
	s.draft = ""
	s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleUser, Content: trimmed})
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	history := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(history)

	sum, err := s.relay.Stream(ctx, history, s.appendFragment)
	cancel()

	s.mu.Lock()
	switch {
	case err != nil:
		log.Warn().Err(err).Int("fragments", sum.Fragments).Msg("Chat turn failed")
		s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleAssistant, Content: describeFailure(err)})
	case s.pending == nil:
		s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleAssistant, Content: FallbackReply})
	}
	changed := err != nil || s.pending == nil
	s.pending = nil
	s.cancel = nil
	s.inFlight = false
	final := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.notify(final)
	}
	return nil
}

// appendFragment upserts the pending reply: the first fragment of a turn appends
// an assistant message, later ones rewrite that same entry.
func (s *Session) appendFragment(fragment string) {
	s.mu.Lock()
	if s.pending == nil {
		s.pending = &pendingReply{index: len(s.transcript)}
		s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleAssistant})
	}
	s.pending.text.WriteString(fragment)
	s.transcript[s.pending.index].Content = s.pending.text.String()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *Session) snapshotLocked() []models.ChatMessage {
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) notify(snapshot []models.ChatMessage) {
	s.mu.Lock()
	observers := append([]func([]models.ChatMessage){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func describeFailure(err error) string {
	msg := err.Error()
	if msg == "" {
		msg = genericFailure
	}
	return errorPrefix + msg
}
