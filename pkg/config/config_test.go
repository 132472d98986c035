package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
openai:
  api_key: "sk-test"
  model: "gpt-4"

ollama:
  base_url: "http://localhost:11434"
  model: "mistral"

crew:
  backend: "ollama"
  temperature: 0.5

images:
  unsplash_access_key: "unsplash-test"
  rate_limit: 1.5

report:
  output_dir: "out"

database:
  url: "postgres://localhost:5432/test"
  table_name: "runs"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", config.OpenAI.APIKey)
	assert.Equal(t, "gpt-4", config.OpenAI.Model)
	assert.Equal(t, "http://localhost:11434", config.Ollama.BaseURL)
	assert.Equal(t, "mistral", config.Ollama.Model)
	assert.Equal(t, "ollama", config.Crew.Backend)
	assert.Equal(t, 0.5, config.Crew.Temperature)
	assert.Equal(t, "unsplash-test", config.Images.UnsplashAccessKey)
	assert.Equal(t, 1.5, config.Images.RateLimit)
	assert.Equal(t, "out", config.Report.OutputDir)
	assert.Equal(t, "runs", config.Database.TableName)
}

func TestConfigDefaults(t *testing.T) {
	config := &Config{}
	applyDefaults(config)

	assert.Equal(t, "gpt-4o", config.OpenAI.Model)
	assert.Equal(t, "http://localhost:11434", config.Ollama.BaseURL)
	assert.Equal(t, "llama3", config.Ollama.Model)
	assert.Equal(t, BackendOpenAI, config.Crew.Backend)
	assert.Equal(t, 0.7, config.Crew.Temperature)
	assert.Equal(t, "reports", config.Report.OutputDir)
	assert.Equal(t, "report_runs", config.Database.TableName)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name          string
		config        Config
		expectedErrs  int
		errorMessages []string
	}{
		{
			name: "valid openai config",
			config: Config{
				OpenAI: OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o"},
				Crew:   CrewConfig{Backend: BackendOpenAI, Temperature: 0.7},
				Images: ImagesConfig{RateLimit: 2.0},
			},
			expectedErrs: 0,
		},
		{
			name: "openai backend without key",
			config: Config{
				Crew:   CrewConfig{Backend: BackendOpenAI, Temperature: 0.7},
				Images: ImagesConfig{RateLimit: 2.0},
			},
			expectedErrs: 1,
			errorMessages: []string{
				"openai.api_key: OpenAI API key is required",
			},
		},
		{
			name: "ollama backend without key is fine",
			config: Config{
				Ollama: OllamaConfig{BaseURL: "http://localhost:11434", Model: "llama3"},
				Crew:   CrewConfig{Backend: BackendOllama, Temperature: 0.7},
				Images: ImagesConfig{RateLimit: 2.0},
			},
			expectedErrs: 0,
		},
		{
			name: "unknown backend and bad temperature",
			config: Config{
				Crew:   CrewConfig{Backend: "claude", Temperature: 3.0},
				Images: ImagesConfig{RateLimit: 2.0},
			},
			expectedErrs: 2,
			errorMessages: []string{
				"crew.backend: unknown LLM backend: claude",
				"crew.temperature: temperature must be between 0 and 2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := tt.config.Validate()
			assert.Len(t, errors, tt.expectedErrs)

			if tt.errorMessages != nil {
				for i, msg := range tt.errorMessages {
					assert.Contains(t, errors[i].Error(), msg)
				}
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "sk-env")
	os.Setenv("DEFAULT_LLM_BACKEND", "ollama")
	os.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")
	os.Setenv("PEXELS_API_KEY", "pexels-env")
	defer func() {
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("DEFAULT_LLM_BACKEND")
		os.Unsetenv("OLLAMA_BASE_URL")
		os.Unsetenv("PEXELS_API_KEY")
	}()

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "sk-env", config.OpenAI.APIKey)
	assert.Equal(t, "ollama", config.Crew.Backend)
	assert.Equal(t, "http://env-ollama:11434", config.Ollama.BaseURL)
	assert.Equal(t, "pexels-env", config.Images.PexelsAPIKey)
}
