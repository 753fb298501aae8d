package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quorumhq/minuted/internal/analysis"
	"github.com/quorumhq/minuted/internal/api"
	"github.com/quorumhq/minuted/internal/config"
	"github.com/quorumhq/minuted/internal/events"
	"github.com/quorumhq/minuted/internal/ollama"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("minuted starting", "port", cfg.Port, "model", cfg.OllamaModel)

	// Inference backend
	llm := ollama.NewClient(cfg.OllamaURL, time.Duration(cfg.TimeoutSecs)*time.Second)
	slog.Info("ollama client ready", "url", cfg.OllamaURL)

	// Extraction pipeline
	pipeline := analysis.NewPipeline(llm, slog.Default())

	// NATS events (optional; the service runs without them)
	var sink api.EventSink
	if cfg.NatsURL != "" {
		pub, err := events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		sink = pub
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, running without analysis events")
	}

	// HTTP API
	defaults := api.Defaults{
		Model:       cfg.OllamaModel,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		NumCtx:      cfg.NumCtx,
		MaxRetries:  cfg.MaxRetries,
	}
	srv := api.NewServer(cfg.Port, pipeline, llm, sink, defaults, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("minuted ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
