package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Ai       AIConfig
	Reader   ReaderConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	WorkspaceRoot   string
	MaxUploadSizeMB int
}

type AIConfig struct {
	Provider       string // "openai", "grok", "minimax", "ollama"
	Model          string
	APIKey         string
	OpenAIBaseURL  string
	GrokBaseURL    string
	MinimaxBaseURL string
	OllamaBaseURL  string
	Temperature    float64
	MaxTokens      int
	ContextPages   int // pages of paper text fed to the model as context
}

type ReaderConfig struct {
	AutosaveDebounceMs int
}

// BaseURL returns the endpoint matching the configured provider.
func (c AIConfig) BaseURL() string {
	switch c.Provider {
	case "grok":
		return c.GrokBaseURL
	case "minimax":
		return c.MinimaxBaseURL
	case "ollama":
		return c.OllamaBaseURL
	default:
		return c.OpenAIBaseURL
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			WorkspaceRoot:   getEnv("STORAGE_WORKSPACE_ROOT", "./workspaces"),
			MaxUploadSizeMB: getEnvAsInt("STORAGE_MAX_UPLOAD_SIZE_MB", 50),
		},
		Ai: AIConfig{
			Provider:       getEnv("LLM_PROVIDER", "openai"),
			Model:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			APIKey:         getEnv("LLM_API_KEY", ""),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			GrokBaseURL:    getEnv("GROK_BASE_URL", "https://api.x.ai/v1"),
			MinimaxBaseURL: getEnv("MINIMAX_BASE_URL", "https://api.minimax.io/v1"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Temperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 2000),
			ContextPages:   getEnvAsInt("LLM_CONTEXT_PAGES", 20),
		},
		Reader: ReaderConfig{
			AutosaveDebounceMs: getEnvAsInt("READER_AUTOSAVE_DEBOUNCE_MS", 1500),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
