package main

import (
	"log"
	"log/slog"

	"github.com/shopsight/shopsight/internal/config"
	"github.com/shopsight/shopsight/internal/llm"
	"github.com/shopsight/shopsight/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	llmProvider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	srv := server.New(cfg, llmProvider)
	slog.Info("starting shopsight", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
