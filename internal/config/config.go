package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

var defaultModels = map[string]string{
	ProviderGemini:     "gemini-2.0-flash-lite",
	ProviderOpenRouter: "google/gemini-2.0-flash-lite-001",
}

// embeddingDimensions lists the vector size of the Gemini embedding models
// the question index is known to work with.
var embeddingDimensions = map[string]int{
	"text-embedding-004":   768,
	"embedding-001":        768,
	"gemini-embedding-001": 3072,
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	Qdrant    QdrantConfig
	Upload    UploadConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	AllowOrigin string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type AIConfig struct {
	Provider          string
	Model             string
	EmbeddingModel    string
	RequestTimeout    time.Duration
	GeminiAPIKey      string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type UploadConfig struct {
	MaxFileSize int64
}

type AuthConfig struct {
	JWTSecret string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	provider := strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini))
	embeddingModel := getEnv("AI_EMBEDDING_MODEL", "text-embedding-004")

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			Env:         getEnv("ENV", "development"),
			AllowOrigin: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_prep"),
		},
		AI: AIConfig{
			Provider:          provider,
			Model:             getEnv("AI_MODEL", defaultModels[provider]),
			EmbeddingModel:    embeddingModel,
			RequestTimeout:    getEnvAsDuration("AI_REQUEST_TIMEOUT", "60s"),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_questions"),
			VectorSize: uint64(getEnvAsInt("QDRANT_VECTOR_SIZE", embeddingDimensions[embeddingModel])),
		},
		Upload: UploadConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvAsInt("RATE_LIMIT_MAX", 20),
			Window: getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 2),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "30s"),
		},
	}
}

// Validate reports configuration that would make every AI endpoint fail.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=%s", ProviderGemini)
		}
	case ProviderOpenRouter:
		if c.AI.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required when AI_PROVIDER=%s", ProviderOpenRouter)
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q (expected %s or %s)", c.AI.Provider, ProviderGemini, ProviderOpenRouter)
	}

	if c.AI.Model == "" {
		return fmt.Errorf("AI_MODEL must not be empty")
	}
	if c.AI.RequestTimeout <= 0 {
		return fmt.Errorf("AI_REQUEST_TIMEOUT must be positive")
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.IndexEnabled() && c.Qdrant.VectorSize == 0 {
		return fmt.Errorf("unknown vector size for AI_EMBEDDING_MODEL %q, set QDRANT_VECTOR_SIZE", c.AI.EmbeddingModel)
	}

	return nil
}

// IndexEnabled reports whether the semantic question index can run.
// Embeddings always come from Gemini, whatever the text provider is.
func (c *Config) IndexEnabled() bool {
	return c.Qdrant.URL != "" && c.AI.GeminiAPIKey != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
