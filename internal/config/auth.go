package config

import "github.com/dharmikk7610/folio/pkg/logger"

// AuthConfig controls the optional bearer check in front of the relay.
// With no secret configured every caller is accepted.
type AuthConfig struct {
	JWTSecret []byte
}

func LoadAuthConfig() AuthConfig {
	secret := GetEnvOrDefault("JWT_SECRET", "")
	if secret == "" {
		logger.Debug(logger.CONFIG, "JWT_SECRET not set - relay accepts unauthenticated requests")
		return AuthConfig{}
	}
	return AuthConfig{JWTSecret: []byte(secret)}
}

// Enabled reports whether callers must present a signed bearer token.
func (a AuthConfig) Enabled() bool {
	return len(a.JWTSecret) > 0
}
