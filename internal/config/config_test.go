package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "LLM_PROVIDER", "MODEL_NAME",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OLLAMA_URL",
		"STORAGE_BACKEND", "DATA_DIR", "SQLITE_PATH", "REDIS_URL",
		"RULES_FILE", "SLEEP_POLICY", "JOURNAL_DIR",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.StorageBackend != BackendFile || cfg.SleepPolicy != SleepShelter {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ModelName != "gpt-4o-mini" {
		t.Errorf("ModelName = %q", cfg.ModelName)
	}
}

func TestLoadFile_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.env")
	content := "LLM_PROVIDER=Anthropic\nANTHROPIC_API_KEY=sk-test\nLOG_LEVEL=debug\nSTORAGE_BACKEND=sqlite\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.StorageBackend != BackendMemory {
		t.Errorf("process env should win, got %q", cfg.StorageBackend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			LLMProvider:    ProviderMock,
			StorageBackend: BackendMemory,
			SleepPolicy:    SleepShelter,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown provider", func(c *Config) { c.LLMProvider = "venice" }, "unknown LLM_PROVIDER"},
		{"openai without key", func(c *Config) { c.LLMProvider = ProviderOpenAI }, "OPENAI_API_KEY"},
		{"gemini without key", func(c *Config) { c.LLMProvider = ProviderGemini }, "GEMINI_API_KEY"},
		{"unknown backend", func(c *Config) { c.StorageBackend = "s3" }, "unknown STORAGE_BACKEND"},
		{"file without dir", func(c *Config) { c.StorageBackend = BackendFile }, "DATA_DIR"},
		{"bad sleep policy", func(c *Config) { c.SleepPolicy = "never" }, "SLEEP_POLICY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
