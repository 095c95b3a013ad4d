package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	RedisURL string

	LLMProvider          string
	LLMModel             string
	LLMAPIKey            string
	LLMBaseURL           string
	LLMRequestsPerMinute int

	EmbeddingModel      string
	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingDimensions int

	RetrievalK               int
	EnableTranslation        bool
	RateLimitPerMinute       int
	PublicRateLimitPerMinute int
	PipelineTimeout          time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	CatalogFile         string
	AssistantProperties string
}

func LoadConfig() Config {
	// a missing .env is fine, the process environment wins anyway
	_ = godotenv.Load()

	return Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8000"),

		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "lawzo"),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		LLMProvider:          getEnv("LLM_PROVIDER", "groq"),
		LLMModel:             getEnv("LLM_MODEL", "llama3-70b-8192"),
		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		LLMBaseURL:           getEnv("LLM_BASE_URL", ""),
		LLMRequestsPerMinute: getEnvInt("LLM_REQUESTS_PER_MINUTE", 0),

		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingAPIKey:     getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingBaseURL:    getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 768),

		RetrievalK:               getEnvInt("RETRIEVAL_K", 4),
		EnableTranslation:        getEnvBool("ENABLE_TRANSLATION", true),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		PublicRateLimitPerMinute: getEnvInt("PUBLIC_RATE_LIMIT_PER_MINUTE", 10),
		PipelineTimeout:          getEnvDuration("PIPELINE_TIMEOUT", 2*time.Minute),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "lawzo"),
		MinIOUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		CatalogFile:         getEnv("CATALOG_FILE", ""),
		AssistantProperties: getEnv("ASSISTANT_PROPERTIES", ""),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
