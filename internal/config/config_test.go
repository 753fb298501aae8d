package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars that might be set
	for _, key := range []string{
		"MINUTED_PORT", "OLLAMA_URL", "OLLAMA_MODEL", "OLLAMA_TIMEOUT_SECS",
		"LOG_LEVEL", "NATS_URL", "NATS_TOKEN", "MINUTED_TEMPERATURE",
		"MINUTED_TOP_P", "MINUTED_NUM_CTX", "MINUTED_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected default ollama url, got %s", cfg.OllamaURL)
	}
	if cfg.OllamaModel != "llama3.2" {
		t.Errorf("expected default model llama3.2, got %s", cfg.OllamaModel)
	}
	if cfg.TimeoutSecs != 120 {
		t.Errorf("expected default timeout 120, got %d", cfg.TimeoutSecs)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.NatsURL != "" {
		t.Errorf("expected empty default nats url, got %s", cfg.NatsURL)
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("expected default temperature 0.1, got %f", cfg.Temperature)
	}
	if cfg.TopP != 0.9 {
		t.Errorf("expected default top_p 0.9, got %f", cfg.TopP)
	}
	if cfg.NumCtx != 4096 {
		t.Errorf("expected default num_ctx 4096, got %d", cfg.NumCtx)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("expected default max retries 2, got %d", cfg.MaxRetries)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("MINUTED_PORT", "9999")
	t.Setenv("OLLAMA_URL", "http://ollama:11434")
	t.Setenv("OLLAMA_MODEL", "mistral")
	t.Setenv("OLLAMA_TIMEOUT_SECS", "30")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NATS_URL", "nats://custom:4222")
	t.Setenv("NATS_TOKEN", "s3cr3t-token")
	t.Setenv("MINUTED_TEMPERATURE", "0.5")
	t.Setenv("MINUTED_TOP_P", "0.8")
	t.Setenv("MINUTED_NUM_CTX", "8192")
	t.Setenv("MINUTED_MAX_RETRIES", "0")

	cfg := Load()

	if cfg.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Port)
	}
	if cfg.OllamaURL != "http://ollama:11434" {
		t.Errorf("expected custom ollama url, got %s", cfg.OllamaURL)
	}
	if cfg.OllamaModel != "mistral" {
		t.Errorf("expected model mistral, got %s", cfg.OllamaModel)
	}
	if cfg.TimeoutSecs != 30 {
		t.Errorf("expected timeout 30, got %d", cfg.TimeoutSecs)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.NatsURL != "nats://custom:4222" {
		t.Errorf("expected custom nats url, got %s", cfg.NatsURL)
	}
	if cfg.NatsToken != "s3cr3t-token" {
		t.Errorf("expected custom nats token, got %s", cfg.NatsToken)
	}
	if cfg.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %f", cfg.Temperature)
	}
	if cfg.TopP != 0.8 {
		t.Errorf("expected top_p 0.8, got %f", cfg.TopP)
	}
	if cfg.NumCtx != 8192 {
		t.Errorf("expected num_ctx 8192, got %d", cfg.NumCtx)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("expected max retries 0, got %d", cfg.MaxRetries)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("MINUTED_PORT", "notanumber")
	t.Setenv("MINUTED_TEMPERATURE", "notafloat")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port on invalid value, got %d", cfg.Port)
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("expected default temperature on invalid value, got %f", cfg.Temperature)
	}
}
