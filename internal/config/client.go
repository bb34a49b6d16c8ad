package config

import (
	"fmt"
	"net/url"

	"github.com/BurntSushi/toml"

	"github.com/dharmikk7610/folio/pkg/logger"
)

const (
	DefaultRelayURL = "http://localhost:8080/chat"
	DefaultGreeting = "Hi! 👋 I'm Dharmik's AI assistant. Ask me anything about his skills, education, or projects!"
)

// ClientConfig configures the chat client. Values come from an optional TOML file
// and are then overridden by CHAT_* environment variables.
type ClientConfig struct {
	RelayURL       string `toml:"relay_url"`
	PublishableKey string `toml:"publishable_key"`
	Greeting       string `toml:"greeting"`
	Markdown       bool   `toml:"markdown"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		RelayURL: DefaultRelayURL,
		Greeting: DefaultGreeting,
		Markdown: true,
	}
}

// LoadClientConfig builds the client configuration. path may be empty.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("decode client config %s: %w", path, err)
		}
		for _, key := range meta.Undecoded() {
			logger.Warn(logger.CONFIG, "Unknown key %q in %s", key.String(), path)
		}
	}

	cfg.RelayURL = GetEnvOrDefault("CHAT_RELAY_URL", cfg.RelayURL)
	cfg.PublishableKey = GetEnvOrDefault("CHAT_PUBLISHABLE_KEY", cfg.PublishableKey)
	cfg.Greeting = GetEnvOrDefault("CHAT_GREETING", cfg.Greeting)
	cfg.Markdown = parseEnvBool("CHAT_MARKDOWN", cfg.Markdown)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c ClientConfig) Validate() error {
	u, err := url.Parse(c.RelayURL)
	if err != nil {
		return fmt.Errorf("invalid relay url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid relay url %q: scheme must be http or https", c.RelayURL)
	}
	return nil
}
