package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the logscope server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AI        AIConfig
	Analysis  AnalysisConfig
	Ingest    IngestConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AIConfig struct {
	Provider         string
	InferenceTimeout time.Duration
	Ollama           OllamaConfig
	OpenAI           OpenAIConfig
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// AnalysisConfig tunes the parsing and aggregation policies. Zero values fall
// back to the package defaults in internal/timestamp and internal/analysis.
type AnalysisConfig struct {
	MinYear         int
	MaxYear         int
	SampleThreshold int
	MaxPoints       int
	CriticalLimit   int
	TopPatternLimit int
	KeyEventLimit   int
}

type IngestConfig struct {
	MaxUploadBytes int64
}

// AuthConfig carries the bcrypt hash the auth middleware compares bearer
// tokens against. Empty hash disables auth (development only).
type AuthConfig struct {
	APIKeyHash string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

var validProviders = map[string]bool{
	"ollama": true,
	"openai": true,
	"mock":   true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("LOGSCOPE_PORT", 8080),
			Env:  envString("LOGSCOPE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("LOGSCOPE_DATABASE_URL"),
			MaxOpenConns:    envInt("LOGSCOPE_DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("LOGSCOPE_DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("LOGSCOPE_DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("LOGSCOPE_REDIS_URL"),
		},
		AI: AIConfig{
			Provider:         envString("LOGSCOPE_AI_PROVIDER", "mock"),
			InferenceTimeout: envDurationSecs("LOGSCOPE_AI_INFERENCE_TIMEOUT_SECS", 60*time.Second),
			Ollama: OllamaConfig{
				BaseURL: envString("LOGSCOPE_OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   envString("LOGSCOPE_OLLAMA_MODEL", "llama3"),
			},
			OpenAI: OpenAIConfig{
				BaseURL: envString("LOGSCOPE_OPENAI_BASE_URL", "https://api.openai.com"),
				APIKey:  os.Getenv("LOGSCOPE_OPENAI_API_KEY"),
				Model:   envString("LOGSCOPE_OPENAI_MODEL", "gpt-4o-mini"),
			},
		},
		Analysis: AnalysisConfig{
			MinYear:         envInt("LOGSCOPE_ANALYSIS_MIN_YEAR", 2020),
			MaxYear:         envInt("LOGSCOPE_ANALYSIS_MAX_YEAR", 2030),
			SampleThreshold: envInt("LOGSCOPE_ANALYSIS_SAMPLE_THRESHOLD", 50000),
			MaxPoints:       envInt("LOGSCOPE_ANALYSIS_MAX_POINTS", 500),
			CriticalLimit:   envInt("LOGSCOPE_ANALYSIS_CRITICAL_LIMIT", 10),
			TopPatternLimit: envInt("LOGSCOPE_ANALYSIS_TOP_PATTERN_LIMIT", 5),
			KeyEventLimit:   envInt("LOGSCOPE_ANALYSIS_KEY_EVENT_LIMIT", 50),
		},
		Ingest: IngestConfig{
			MaxUploadBytes: envInt64("LOGSCOPE_INGEST_MAX_UPLOAD_BYTES", 50<<20),
		},
		Auth: AuthConfig{
			APIKeyHash: os.Getenv("LOGSCOPE_API_KEY_HASH"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: envInt("LOGSCOPE_RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("LOGSCOPE_DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("LOGSCOPE_REDIS_URL is required")
	}

	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("LOGSCOPE_AI_PROVIDER must be one of ollama, openai, mock; got %q", c.AI.Provider)
	}
	if c.AI.Provider == "openai" && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("LOGSCOPE_OPENAI_API_KEY is required when LOGSCOPE_AI_PROVIDER is openai")
	}
	if c.AI.Provider == "ollama" {
		if !strings.HasPrefix(c.AI.Ollama.BaseURL, "http://") && !strings.HasPrefix(c.AI.Ollama.BaseURL, "https://") {
			return fmt.Errorf("LOGSCOPE_OLLAMA_BASE_URL must start with http:// or https://, got %q", c.AI.Ollama.BaseURL)
		}
	}

	if c.Analysis.MinYear > c.Analysis.MaxYear {
		return fmt.Errorf("LOGSCOPE_ANALYSIS_MIN_YEAR (%d) must not exceed LOGSCOPE_ANALYSIS_MAX_YEAR (%d)",
			c.Analysis.MinYear, c.Analysis.MaxYear)
	}

	if c.Ingest.MaxUploadBytes <= 0 {
		return fmt.Errorf("LOGSCOPE_INGEST_MAX_UPLOAD_BYTES must be positive, got %d", c.Ingest.MaxUploadBytes)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
