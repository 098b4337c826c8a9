package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"

	BackendSQLite   = "sqlite"
	BackendValkey   = "valkey"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

const (
	DefaultNewsAPIBaseURL  = "https://newsapi.org/v2"
	DefaultOpenAIBaseURL   = "https://api.openai.com/v1/"
	DefaultGeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultPageSize        = 14
	DefaultArticlesCount   = 10
	DefaultNewsTimeout     = 10 * time.Second
	DefaultAITimeout       = 30 * time.Second
	DefaultStateDBPath     = "./data/punchline.db"
	DefaultValkeyAddress   = "localhost:6379"
	DefaultDynamoDBTable   = "PunchlineState"
	DefaultAWSRegion       = "us-west-2"
	DefaultKafkaJokesTopic = "punchline.jokes"
)

type Config struct {
	Env      string
	LogLevel string

	UseMockData bool

	News NewsConfig
	AI   AIConfig

	Persistence PersistenceConfig
	Kafka       KafkaConfig

	ArticlesCount   int
	RefreshInterval time.Duration
}

type NewsConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

type AIConfig struct {
	// Provider is the effective backend; USE_MOCK_DATA forces ProviderMock.
	Provider string
	Timeout  time.Duration

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
}

type PersistenceConfig struct {
	Backend string

	SQLitePath string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	DynamoDBTable string
	AWSEndpoint   string
	AWSRegion     string
}

type KafkaConfig struct {
	Broker     string
	JokesTopic string
}

// Load reads the process environment into a Config and validates the
// enumerated settings.
func Load() (Config, error) {
	cfg := Config{
		Env:         getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		UseMockData: getEnvBool("USE_MOCK_DATA", false),
		News: NewsConfig{
			APIKey:   os.Getenv("NEWS_API_KEY"),
			BaseURL:  getEnv("NEWS_API_BASE_URL", DefaultNewsAPIBaseURL),
			PageSize: getEnvInt("NEWS_PAGE_SIZE", DefaultPageSize),
			Timeout:  getEnvDuration("NEWS_API_TIMEOUT", DefaultNewsTimeout),
		},
		AI: AIConfig{
			Provider:      strings.ToLower(strings.TrimSpace(getEnv("AI_PROVIDER", ProviderGemini))),
			Timeout:       getEnvDuration("AI_TIMEOUT", DefaultAITimeout),
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnv("OPENAI_MODEL", DefaultOpenAIModel),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
			GeminiKey:     os.Getenv("GEMINI_API_KEY"),
			GeminiModel:   getEnv("GEMINI_MODEL", DefaultGeminiModel),
			GeminiBaseURL: getEnv("GEMINI_API_BASE_URL", DefaultGeminiBaseURL),
		},
		Persistence: PersistenceConfig{
			Backend:        strings.ToLower(getEnv("PERSISTENCE_BACKEND", BackendSQLite)),
			SQLitePath:     getEnv("STATE_DB_PATH", DefaultStateDBPath),
			ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", DefaultValkeyAddress),
			ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
			ValkeyTLS:      getEnvBool("VALKEY_TLS", false),
			DynamoDBTable:  getEnv("DYNAMODB_TABLE", DefaultDynamoDBTable),
			AWSEndpoint:    os.Getenv("AWS_ENDPOINT"),
			AWSRegion:      getEnv("AWS_REGION", DefaultAWSRegion),
		},
		Kafka: KafkaConfig{
			Broker:     os.Getenv("KAFKA_BROKER"),
			JokesTopic: getEnv("KAFKA_JOKES_TOPIC", DefaultKafkaJokesTopic),
		},
		ArticlesCount:   getEnvInt("ARTICLES_COUNT", DefaultArticlesCount),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 0),
	}

	if cfg.UseMockData {
		// Mock mode wins over whatever AI_PROVIDER says.
		cfg.AI.Provider = ProviderMock
	} else {
		switch cfg.AI.Provider {
		case ProviderOpenAI, ProviderGemini:
		default:
			return cfg, fmt.Errorf("[Config] unknown AI_PROVIDER %q: must be %q or %q",
				cfg.AI.Provider, ProviderOpenAI, ProviderGemini)
		}
	}

	switch cfg.Persistence.Backend {
	case BackendSQLite, BackendValkey, BackendDynamoDB, BackendMemory:
	default:
		return cfg, fmt.Errorf("[Config] unknown PERSISTENCE_BACKEND %q", cfg.Persistence.Backend)
	}

	if cfg.News.PageSize <= 0 {
		cfg.News.PageSize = DefaultPageSize
	}
	if cfg.ArticlesCount <= 0 {
		cfg.ArticlesCount = DefaultArticlesCount
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valStr := strings.TrimSpace(os.Getenv(key))
	if valStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
