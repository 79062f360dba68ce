package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read before the process environment when it exists.
const DefaultEnvFile = "config.env"

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	SleepShelter  = "shelter"
	SleepAnywhere = "anywhere"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"trail.log"`
	LogLevel    slog.Level

	LLMProvider     string `env:"LLM_PROVIDER" envDefault:"openai"`
	ModelName       string `env:"MODEL_NAME"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OllamaURL       string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"trail.db"`
	RedisURL       string `env:"REDIS_URL" envDefault:"localhost:6379"`

	RulesFile   string `env:"RULES_FILE"`
	SleepPolicy string `env:"SLEEP_POLICY" envDefault:"shelter"`
	JournalDir  string `env:"JOURNAL_DIR" envDefault:"."`
}

// Load reads config.env (if present) into the environment and parses
// the result.
func Load() (*Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile is Load with an explicit env file. Variables already set in the
// process environment win over the file.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)
	cfg.StorageBackend = strings.ToLower(cfg.StorageBackend)
	cfg.SleepPolicy = strings.ToLower(cfg.SleepPolicy)
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModel(cfg.LLMProvider)
	}
	return &cfg, nil
}

// Validate rejects unknown providers and backends and missing credentials.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for provider %q", c.LLMProvider)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.StorageBackend {
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.SleepPolicy {
	case SleepShelter, SleepAnywhere:
	default:
		return fmt.Errorf("unknown SLEEP_POLICY %q", c.SleepPolicy)
	}
	return nil
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOllama:
		return "llama3.1"
	default:
		return ""
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
