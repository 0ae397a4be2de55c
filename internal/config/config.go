package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Rag      RagConfig
	Location LocationConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables event publishing
	RedisURL           string // empty disables the geocode cache
	SessionTTL         time.Duration
	RateLimitPerMinute int
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type AIConfig struct {
	LLMProvider         string // "ollama", "openai" or "gemini"
	LLMModel            string
	OllamaBaseURL       string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	GeminiAPIKey        string
	EmbeddingProvider   string // "ollama", "gemini" or "jina"
	EmbeddingModel      string
	EmbeddingAPIKey     string
	ExternalCallTimeout time.Duration
}

type RagConfig struct {
	CorpusPath   string
	CorpusSource string
	Threshold    float64
	TopK         int
	ChunkSize    int
	ChunkOverlap int
}

type LocationConfig struct {
	NominatimURL    string
	OverpassURL     string
	UserAgent       string
	DefaultCountry  string
	RadiusMeters    int
	GeocodeCacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	env := getEnv("GO_ENV", "development")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        env,
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", time.Hour),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    env != "production",
		},
		Ai: AIConfig{
			LLMProvider:         getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:            getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
			GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingAPIKey:     getEnv("EMBEDDING_API_KEY", ""),
			ExternalCallTimeout: getEnvAsDuration("EXTERNAL_CALL_TIMEOUT", 20*time.Second),
		},
		Rag: RagConfig{
			CorpusPath:   getEnv("CORPUS_PATH", ""),
			CorpusSource: getEnv("CORPUS_SOURCE", "home-remedies"),
			Threshold:    getEnvAsFloat("RETRIEVAL_THRESHOLD", 0.2),
			TopK:         getEnvAsInt("RETRIEVAL_K", 3),
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		},
		Location: LocationConfig{
			NominatimURL:    getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			OverpassURL:     getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			UserAgent:       getEnv("GEO_USER_AGENT", "AmbuBot/1.0"),
			DefaultCountry:  getEnv("DEFAULT_COUNTRY", "USA"),
			RadiusMeters:    getEnvAsInt("FACILITY_RADIUS_METERS", 20000),
			GeocodeCacheTTL: getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		},
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("20s") or plain seconds ("20").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
