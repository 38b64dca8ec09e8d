package config

import (
	"strings"
	"testing"
)

func TestLoadConfigEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("API_KEY", "test-key")
	t.Setenv("STORE", "pgvector")
	t.Setenv("CHAT_MODEL", "gpt-4o-mini")
	t.Setenv("REQUEST_TIMEOUT_SEC", "30")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want test-key", cfg.APIKey)
	}
	if cfg.Store != "pgvector" {
		t.Errorf("Store = %q, want pgvector", cfg.Store)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.RequestTimeoutSec != 30 {
		t.Errorf("RequestTimeoutSec = %d, want 30", cfg.RequestTimeoutSec)
	}
	// Untouched fields keep their defaults.
	if cfg.MilvusAddr != "localhost:19530" {
		t.Errorf("MilvusAddr = %q, want the default", cfg.MilvusAddr)
	}
}

func TestLoadConfigCaches(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	second, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if first != second {
		t.Error("LoadConfig() did not return the cached instance")
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.LLMProvider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider without API key should validate, got %v", err)
	}

	cfg = defaultConfig()
	cfg.LLMProvider = "openai"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("openai provider without API key should fail validation")
	}
	if !strings.Contains(err.Error(), "API Key") {
		t.Errorf("err = %v, want mention of API Key", err)
	}

	cfg = defaultConfig()
	cfg.APIKey = "k"
	cfg.RequestTimeoutSec = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero timeout should fail validation")
	}
}
