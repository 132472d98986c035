package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

type Config struct {
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Crew     CrewConfig     `yaml:"crew"`
	Images   ImagesConfig   `yaml:"images"`
	Report   ReportConfig   `yaml:"report"`
	Database DatabaseConfig `yaml:"database"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type CrewConfig struct {
	Backend     string  `yaml:"backend"`
	Temperature float64 `yaml:"temperature"`
}

type ImagesConfig struct {
	UnsplashAccessKey string  `yaml:"unsplash_access_key"`
	PexelsAPIKey      string  `yaml:"pexels_api_key"`
	RateLimit         float64 `yaml:"rate_limit"` // requests per second
}

type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/reportcrew/config.yaml"),
			"/etc/reportcrew/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.OpenAI.Model == "" {
		config.OpenAI.Model = "gpt-4o"
	}

	if config.Ollama.BaseURL == "" {
		config.Ollama.BaseURL = "http://localhost:11434"
	}
	if config.Ollama.Model == "" {
		config.Ollama.Model = "llama3"
	}

	if config.Crew.Backend == "" {
		config.Crew.Backend = BackendOpenAI
	}
	if config.Crew.Temperature == 0 {
		config.Crew.Temperature = 0.7
	}

	if config.Images.RateLimit == 0 {
		config.Images.RateLimit = 2.0
	}

	if config.Report.OutputDir == "" {
		config.Report.OutputDir = "reports"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "report_runs"
	}
}

func mergeWithEnv(config *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.OpenAI.Model = model
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.Ollama.BaseURL = baseURL
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		config.Ollama.Model = model
	}
	if backend := os.Getenv("DEFAULT_LLM_BACKEND"); backend != "" {
		config.Crew.Backend = backend
	}
	if temp := os.Getenv("TEMPERATURE"); temp != "" {
		if parsed, err := strconv.ParseFloat(temp, 64); err == nil {
			config.Crew.Temperature = parsed
		}
	}
	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		config.Images.UnsplashAccessKey = key
	}
	if key := os.Getenv("PEXELS_API_KEY"); key != "" {
		config.Images.PexelsAPIKey = key
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}
