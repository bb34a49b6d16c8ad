package httpext

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON error envelope returned by the relay
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// JSON writes v as a JSON body with the given status code
func JSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent, nothing left to do but record it
		log.Error().Err(err).Int("status", code).Msg("Failed to encode JSON response")
	}
}

// JsonError writes {"error": message} with the specified status code
func JsonError(w http.ResponseWriter, message string, code int) {
	JSON(w, code, ErrorResponse{Error: message})
}

// JsonErrorWithDetails writes the full error envelope, including the optional description
func JsonErrorWithDetails(w http.ResponseWriter, code int, resp ErrorResponse) {
	JSON(w, code, resp)
}
