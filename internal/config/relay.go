package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dharmikk7610/folio/pkg/logger"
)

const (
	// CredentialEnv names the variable holding the upstream provider key
	CredentialEnv = "OPEN_ROUTER_KEY"

	DefaultUpstreamURL   = "https://openrouter.ai/api/v1/chat/completions"
	DefaultUpstreamModel = "deepseek/deepseek-r1-0528:free"
)

// ErrMissingCredential is reported for every relay request when OPEN_ROUTER_KEY is unset.
var ErrMissingCredential = errors.New(CredentialEnv + " is not configured")

// RelayConfig is everything the chat relay reads from the environment.
// It is loaded once at startup and handed to the handlers.
type RelayConfig struct {
	Port            int
	UpstreamURL     string
	UpstreamKey     string
	Model           string
	SystemPrompt    string
	ShutdownTimeout time.Duration
	Auth            AuthConfig
}

// LoadRelayConfig reads the relay configuration. A missing credential is not an
// error here: it is surfaced by Validate so the server still starts and answers
// every chat request with a configuration error.
func LoadRelayConfig() (RelayConfig, error) {
	cfg := RelayConfig{
		Port:            parseEnvInt("PORT", 8080),
		UpstreamURL:     GetEnvOrDefault("UPSTREAM_URL", DefaultUpstreamURL),
		UpstreamKey:     GetEnvOrDefault(CredentialEnv, ""),
		Model:           GetEnvOrDefault("UPSTREAM_MODEL", DefaultUpstreamModel),
		ShutdownTimeout: parseEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Auth:            LoadAuthConfig(),
	}

	if path := GetEnvOrDefault("SYSTEM_PROMPT_FILE", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read system prompt file: %w", err)
		}
		cfg.SystemPrompt = strings.TrimSpace(string(data))
		logger.Info(logger.CONFIG, "System prompt loaded from %s", path)
	}

	if cfg.UpstreamKey == "" {
		logger.Warn(logger.CONFIG, "%s not set - chat requests will fail until it is configured", CredentialEnv)
	} else {
		logger.Info(logger.CONFIG, "Upstream credential successfully loaded")
	}

	return cfg, nil
}

// Validate reports configuration problems that make every chat request fail.
func (c RelayConfig) Validate() error {
	if c.UpstreamKey == "" {
		return ErrMissingCredential
	}
	if c.UpstreamURL == "" {
		return errors.New("UPSTREAM_URL is empty")
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c RelayConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
