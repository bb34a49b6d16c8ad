package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/dharmikk7610/folio/internal/config"
	"github.com/dharmikk7610/folio/pkg/httpext"
)

type contextKey string

const claimsKey contextKey = "bearerClaims"

// Claims is the payload of the static publishable key. Supabase style keys carry
// a role such as "anon".
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// ExtractToken returns the bearer token from the Authorization header, or "".
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		log.Debug().Msg("Malformed Authorization header")
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ValidateToken checks an HS256 token against secret
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireBearer rejects requests without a valid signed bearer token. It is a
// no-op when no secret is configured, and never blocks CORS preflights.
func RequireBearer(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled() || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := ExtractToken(r)
			if tokenString == "" {
				httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := ValidateToken(tokenString, cfg.JWTSecret)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
				httpext.JsonError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the validated bearer claims from the request context
func GetClaims(r *http.Request) *Claims {
	if claims, ok := r.Context().Value(claimsKey).(*Claims); ok {
		return claims
	}
	return nil
}
