package llm_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kherington/reportcrew/pkg/config"
	"github.com/kherington/reportcrew/pkg/llm"
)

func TestNewWithConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  llm.BackendConfig
		wantErr bool
	}{
		{
			name: "openai with key",
			config: llm.BackendConfig{
				Backend: config.BackendOpenAI,
				Model:   "gpt-4o",
				APIKey:  "sk-test",
			},
		},
		{
			name: "openai without key",
			config: llm.BackendConfig{
				Backend: config.BackendOpenAI,
				Model:   "gpt-4o",
			},
			wantErr: true,
		},
		{
			name: "ollama with defaults",
			config: llm.BackendConfig{
				Backend: config.BackendOllama,
			},
		},
		{
			name: "unknown backend",
			config: llm.BackendConfig{
				Backend: "claude",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := llm.NewWithConfig(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, model)
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		OpenAI: config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o"},
		Ollama: config.OllamaConfig{BaseURL: "http://localhost:11434", Model: "llama3"},
		Crew:   config.CrewConfig{Backend: config.BackendOpenAI},
	}

	backend := llm.FromConfig(cfg, "")
	assert.Equal(t, config.BackendOpenAI, backend.Backend)
	assert.Equal(t, "gpt-4o", backend.Model)

	backend = llm.FromConfig(cfg, config.BackendOllama)
	assert.Equal(t, config.BackendOllama, backend.Backend)
	assert.Equal(t, "llama3", backend.Model)
}

func TestCheckAvailability(t *testing.T) {
	t.Run("openai missing key", func(t *testing.T) {
		err := llm.CheckAvailability(llm.BackendConfig{Backend: config.BackendOpenAI})
		assert.Error(t, err)
	})

	t.Run("openai with key", func(t *testing.T) {
		err := llm.CheckAvailability(llm.BackendConfig{
			Backend: config.BackendOpenAI,
			APIKey:  "sk-test",
		})
		assert.NoError(t, err)
	})

	t.Run("ollama reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := llm.CheckAvailability(llm.BackendConfig{
			Backend: config.BackendOllama,
			BaseURL: server.URL,
		})
		assert.NoError(t, err)
	})

	t.Run("ollama unreachable", func(t *testing.T) {
		err := llm.CheckAvailability(llm.BackendConfig{
			Backend: config.BackendOllama,
			BaseURL: "http://127.0.0.1:1",
		})
		assert.Error(t, err)
	})
}
