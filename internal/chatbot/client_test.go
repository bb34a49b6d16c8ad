package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1handlers "github.com/dharmikk7610/folio/internal/api/v1/handlers"
	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/internal/domain/chat/models"
	upstream "github.com/dharmikk7610/folio/internal/infrastructure/openai"
	"github.com/dharmikk7610/folio/internal/services/chat"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.ClientConfig{RelayURL: server.URL + "/chat", PublishableKey: "pk-test"}, server.Client())
}

func collect(t *testing.T, c *Client, messages []models.ChatMessage) ([]string, error) {
	t.Helper()
	var got []string
	_, err := c.Stream(context.Background(), messages, func(s string) { got = append(got, s) })
	return got, err
}

func TestClientSendsTranscriptWithBearer(t *testing.T) {
	transcript := []models.ChatMessage{
		{Role: models.RoleAssistant, Content: greeting},
		{Role: models.RoleUser, Content: "hello"},
	}

	var received models.ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer pk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n")
	})

	got, err := collect(t, c, transcript)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi"}, got)
	assert.Equal(t, transcript, received.Messages)
}

func TestClientRelayErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"envelope", http.StatusInternalServerError, `{"error":"OPEN_ROUTER_KEY is not configured"}`, "OPEN_ROUTER_KEY is not configured"},
		{"upstream status", http.StatusTooManyRequests, `{"error":"Upstream API error: 429","error_description":"Rate limit exceeded"}`, "Upstream API error: 429"},
		{"not json", http.StatusBadGateway, "<html>bad gateway</html>", "Request failed (502)"},
		{"empty envelope", http.StatusServiceUnavailable, `{}`, "Request failed (503)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			got, err := collect(t, c, nil)
			assert.Empty(t, got)

			var relayErr *RelayError
			require.True(t, errors.As(err, &relayErr))
			assert.Equal(t, tt.status, relayErr.Status)
			assert.Equal(t, tt.want, relayErr.Error())
		})
	}
}

func TestClientEmptySuccessBodyIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	})

	var got []string
	sum, err := c.Stream(context.Background(), nil, func(s string) { got = append(got, s) })
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, sum.Fragments)
}

// nilBodyTransport answers every request with a response that has no body
type nilBodyTransport struct{}

func (nilBodyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Request: r}, nil
}

func TestClientNilBodyIsRelayError(t *testing.T) {
	c := NewClient(config.ClientConfig{RelayURL: "http://relay.test/chat"}, &http.Client{Transport: nilBodyTransport{}})

	_, err := c.Stream(context.Background(), nil, func(string) {})

	var relayErr *RelayError
	require.True(t, errors.As(err, &relayErr))
	assert.Equal(t, "Request failed (200)", relayErr.Error())
}

func TestClientTransportError(t *testing.T) {
	c := NewClient(config.ClientConfig{RelayURL: "http://127.0.0.1:1/chat"}, nil)

	_, err := collect(t, c, nil)
	require.Error(t, err)

	var relayErr *RelayError
	assert.False(t, errors.As(err, &relayErr))
}

// TestSessionThroughRelay runs a session against the real router in front of a
// fake provider that splits its stream at awkward places.
func TestSessionThroughRelay(t *testing.T) {
	chunks := []string{
		": OPENROUTER PROCESSING\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"Héllo",
		"\"}}]}\r\n\r\ndata: {\"choices\":[{\"delta\":{\"content\":\" \xe2\x9c",
		"\xa8\"}}]}\n\n",
		"data: {\"choices\":[{\"delta\":{}}]}\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\ndata: [DONE]\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"ignored\"}}]}\n\n",
	}

	var received struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range chunks {
			_, _ = io.WriteString(w, c)
			_ = http.NewResponseController(w).Flush()
		}
	}))
	defer provider.Close()

	cfg := config.RelayConfig{UpstreamURL: provider.URL, UpstreamKey: "sk-or-test", Model: config.DefaultUpstreamModel}
	router := mux.NewRouter()
	v1handlers.RegisterV1Routes(router, cfg, chat.NewService(upstream.NewService(cfg, provider.Client()), cfg.Model, nil))
	relay := httptest.NewServer(router)
	defer relay.Close()

	s := NewSession(NewClient(config.ClientConfig{RelayURL: relay.URL + "/functions/v1/chat"}, relay.Client()), greeting)
	require.NoError(t, s.SendMessage(context.Background(), "Who are you?"))

	transcript := s.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "Héllo ✨ world", transcript[2].Content)

	// system prompt first, then the transcript as the session held it
	require.Len(t, received.Messages, 3)
	assert.Equal(t, models.RoleSystem, received.Messages[0].Role)
	assert.Equal(t, greeting, received.Messages[1].Content)
	assert.Equal(t, "Who are you?", received.Messages[2].Content)
}

func TestSessionThroughRelayStreamsWithoutDataFrames(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"comments only", ": keep-alive\n\n"},
		{"done only", "data: [DONE]\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer provider.Close()

			cfg := config.RelayConfig{UpstreamURL: provider.URL, UpstreamKey: "sk-or-test", Model: config.DefaultUpstreamModel}
			router := mux.NewRouter()
			v1handlers.RegisterV1Routes(router, cfg, chat.NewService(upstream.NewService(cfg, provider.Client()), cfg.Model, nil))
			relay := httptest.NewServer(router)
			defer relay.Close()

			s := NewSession(NewClient(config.ClientConfig{RelayURL: relay.URL + "/chat"}, relay.Client()), greeting)
			require.NoError(t, s.SendMessage(context.Background(), "hello"))

			transcript := s.Transcript()
			require.Len(t, transcript, 3)
			assert.Equal(t, FallbackReply, transcript[2].Content)
		})
	}
}

func TestSessionThroughRelayWithoutCredential(t *testing.T) {
	cfg := config.RelayConfig{UpstreamURL: "http://127.0.0.1:1", Model: config.DefaultUpstreamModel}
	router := mux.NewRouter()
	v1handlers.RegisterV1Routes(router, cfg, chat.NewService(upstream.NewService(cfg, nil), cfg.Model, nil))
	relay := httptest.NewServer(router)
	defer relay.Close()

	s := NewSession(NewClient(config.ClientConfig{RelayURL: relay.URL + "/chat"}, relay.Client()), greeting)
	require.NoError(t, s.SendMessage(context.Background(), "hello"))

	assert.True(t, strings.HasPrefix(last(t, s.Transcript()).Content, "Oops! OPEN_ROUTER_KEY"))
}
