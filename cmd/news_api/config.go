package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/ognjenm/news-pulse/internal/cache"
	"github.com/ognjenm/news-pulse/internal/llm"
	"github.com/ognjenm/news-pulse/internal/news"
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

type ApiConfig struct {
	StorageConfig factory.StorageConfig
	LlmConfig     llm.Config
	CacheConfig   cache.Config
	EngineConfig  news.Config

	// LexiconPath optionally overrides the compiled-in intent lexicon.
	LexiconPath string

	// DatasetPath triggers an in-process import at startup when set.
	DatasetPath string
}

func (as *AppConfig) Load() (*ApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/news_api/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &ApiConfig{
		StorageConfig: *storageCfg,
		LlmConfig: llm.Config{
			Endpoint: os.Getenv("LLM_ENDPOINT"),
			APIKey:   os.Getenv("LLM_API_KEY"),
			Model:    os.Getenv("LLM_MODEL"),
			Timeout:  envDuration("LLM_TIMEOUT_SECONDS", 0),
		},
		CacheConfig: cache.Config{
			Precision: envFloat("TRENDING_CLUSTER_PRECISION", 0),
			TTL:       envDuration("TRENDING_CACHE_TTL_SECONDS", 0),
			Capacity:  envInt("TRENDING_CACHE_CAPACITY", 0),
		},
		EngineConfig: news.Config{
			WindowHours:    envInt("TRENDING_WINDOW_HOURS", 0),
			NearbyRadiusKm: envFloat("NEARBY_RADIUS_KM", 0),
		},
		LexiconPath: os.Getenv("LEXICON_PATH"),
		DatasetPath: os.Getenv("DATASET_PATH"),
	}, nil
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	seconds, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
