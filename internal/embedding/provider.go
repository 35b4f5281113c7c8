package embedding

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderLocal  = "local"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config selects and configures an embedding provider.
type Config struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base-url"`
	APIKey   string `mapstructure:"-"`
}

// NewProvider builds the provider named by cfg.Provider. An empty name selects the local embedder.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderLocal:
		return NewLocal(), nil
	case ProviderOllama:
		return NewOllama(cfg.BaseURL, cfg.Model), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	case ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
