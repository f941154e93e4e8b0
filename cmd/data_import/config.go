package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ognjenm/news-pulse/internal/llm"
	"github.com/ognjenm/news-pulse/internal/storage/factory"
	"github.com/ognjenm/news-pulse/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type DataImportConfig struct {
	DatasetPath string
	LlmConfig   llm.Config
	factory.StorageConfig
}

func (as *AppConfig) Load() (*DataImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/data_import/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	dsPath := os.Getenv("DATASET_PATH")
	if dsPath == "" {
		slog.Error("DATASET_PATH environment variable is not set")
		return nil, fmt.Errorf("DATASET_PATH environment variable is not set")
	}

	return &DataImportConfig{
		DatasetPath: dsPath,
		LlmConfig: llm.Config{
			Endpoint: os.Getenv("LLM_ENDPOINT"),
			APIKey:   os.Getenv("LLM_API_KEY"),
			Model:    os.Getenv("LLM_MODEL"),
		},
		StorageConfig: *storageCfg,
	}, nil
}
