package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for the selected backend. A missing
// credential for that backend is fatal and must be reported before any
// agent work starts.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	switch c.Crew.Backend {
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "openai.api_key",
				Message: "OpenAI API key is required for the openai backend",
			})
		}
	case BackendOllama:
		if c.Ollama.BaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "ollama.base_url",
				Message: "Ollama base URL is required for the ollama backend",
			})
		} else if _, err := url.Parse(c.Ollama.BaseURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "ollama.base_url",
				Message: "invalid Ollama base URL",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "crew.backend",
			Message: fmt.Sprintf("unknown LLM backend: %s", c.Crew.Backend),
		})
	}

	if c.Crew.Temperature < 0 || c.Crew.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "crew.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.Images.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "images.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	return errors
}
