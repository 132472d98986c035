package llm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/kherington/reportcrew/pkg/config"
)

// BackendConfig holds everything needed to construct a chat model for one of
// the supported backends.
type BackendConfig struct {
	Backend string // "openai" or "ollama"
	Model   string
	APIKey  string // openai only
	BaseURL string // ollama only
}

// NewWithConfig constructs the chat model for the selected backend.
func NewWithConfig(cfg BackendConfig) (llms.Model, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is not set")
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-4o"
		}
		model, err := openai.New(
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
		}
		return model, nil

	case config.BackendOllama:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434"
		}
		if cfg.Model == "" {
			cfg.Model = "llama3"
		}
		model, err := ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.BaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Ollama model: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unknown LLM backend: %s", cfg.Backend)
	}
}

// FromConfig builds the backend config for the selected backend out of the
// application configuration.
func FromConfig(cfg *config.Config, backend string) BackendConfig {
	if backend == "" {
		backend = cfg.Crew.Backend
	}
	return BackendConfig{
		Backend: backend,
		Model:   pickModel(cfg, backend),
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.Ollama.BaseURL,
	}
}

func pickModel(cfg *config.Config, backend string) string {
	if backend == config.BackendOllama {
		return cfg.Ollama.Model
	}
	return cfg.OpenAI.Model
}

// CheckAvailability verifies that the selected backend is usable before any
// agent work starts. For openai this is a credential check; for ollama the
// server is probed with a short timeout.
func CheckAvailability(cfg BackendConfig) error {
	switch cfg.Backend {
	case config.BackendOpenAI:
		if cfg.APIKey == "" {
			return fmt.Errorf("OpenAI API key is not set")
		}
		return nil

	case config.BackendOllama:
		client := &http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(cfg.BaseURL)
		if err != nil {
			return fmt.Errorf("Ollama server is not reachable at %s: %w", cfg.BaseURL, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("Ollama server at %s returned status %d", cfg.BaseURL, resp.StatusCode)
		}
		return nil

	default:
		return fmt.Errorf("unknown LLM backend: %s", cfg.Backend)
	}
}
