package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	OllamaURL   string
	OllamaModel string
	TimeoutSecs int
	LogLevel    string
	NatsURL     string
	NatsToken   string
	Temperature float64
	TopP        float64
	NumCtx      int
	MaxRetries  int
}

func Load() Config {
	return Config{
		Port:        envInt("MINUTED_PORT", 8080),
		OllamaURL:   envStr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envStr("OLLAMA_MODEL", "llama3.2"),
		TimeoutSecs: envInt("OLLAMA_TIMEOUT_SECS", 120),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		Temperature: envFloat("MINUTED_TEMPERATURE", 0.1),
		TopP:        envFloat("MINUTED_TOP_P", 0.9),
		NumCtx:      envInt("MINUTED_NUM_CTX", 4096),
		MaxRetries:  envInt("MINUTED_MAX_RETRIES", 2),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
