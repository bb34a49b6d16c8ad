package httpext

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		code    int
	}{
		{name: "Configuration error", message: "OPEN_ROUTER_KEY is not configured", code: http.StatusInternalServerError},
		{name: "Mirrored upstream status", message: "OpenRouter API error: 429", code: http.StatusTooManyRequests},
		{name: "Bad request", message: "Invalid request format", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JsonError(w, tt.message, tt.code)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.message, body["error"])
			_, hasDescription := body["error_description"]
			assert.False(t, hasDescription, "description is omitted when empty")
		})
	}
}

func TestJsonErrorWithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	JsonErrorWithDetails(w, http.StatusPaymentRequired, ErrorResponse{
		Error:            "OpenRouter API error: 402",
		ErrorDescription: "Insufficient credits",
	})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "OpenRouter API error: 402", response.Error)
	assert.Equal(t, "Insufficient credits", response.ErrorDescription)
}
