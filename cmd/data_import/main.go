package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ognjenm/news-pulse/internal/ingest"
	"github.com/ognjenm/news-pulse/internal/llm"
	"github.com/ognjenm/news-pulse/internal/storage/factory"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.Info("Starting import", "storageType", cfg.StorageConfig.Type, "dataset", cfg.DatasetPath)

	store, err := factory.NewStore(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to create store", "error", err)
		os.Exit(1)
	}

	var summarizer llm.Summarizer = llm.LocalSummarizer{}
	if cfg.LlmConfig.Configured() {
		summarizer = llm.NewClient(cfg.LlmConfig)
	}

	loader := ingest.NewLoader(store, summarizer)
	if err := loader.LoadFile(ctx, cfg.DatasetPath); err != nil {
		slog.Error("failed to import dataset", "error", err)
		os.Exit(1)
	}

	slog.Info("Import completed")
}
