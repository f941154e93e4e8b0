package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/ognjenm/news-pulse/internal/cache"
	"github.com/ognjenm/news-pulse/internal/ingest"
	"github.com/ognjenm/news-pulse/internal/intent"
	"github.com/ognjenm/news-pulse/internal/llm"
	"github.com/ognjenm/news-pulse/internal/news"
	"github.com/ognjenm/news-pulse/internal/router"
	"github.com/ognjenm/news-pulse/internal/server"
	"github.com/ognjenm/news-pulse/internal/storage/factory"
	pkgserver "github.com/ognjenm/news-pulse/pkg/server"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := factory.NewStore(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create store", "error", err)
		os.Exit(1)
	}

	lexicon, err := loadLexicon(cfg.LexiconPath)
	if err != nil {
		slog.Error("Failed to load lexicon", "error", err, "path", cfg.LexiconPath)
		os.Exit(1)
	}

	var analyzer intent.Analyzer
	var summarizer llm.Summarizer = llm.LocalSummarizer{}
	if cfg.LlmConfig.Configured() {
		client := llm.NewClient(cfg.LlmConfig)
		analyzer = client
		summarizer = client
		slog.Info("LLM analysis enabled", "model", cfg.LlmConfig.Model)
	} else {
		slog.Info("LLM not configured, using heuristic intent parsing")
	}

	if cfg.DatasetPath != "" {
		loader := ingest.NewLoader(store, summarizer)
		if err := loader.LoadFile(ctx, cfg.DatasetPath); err != nil {
			slog.Error("Failed to import dataset", "error", err, "path", cfg.DatasetPath)
			os.Exit(1)
		}
	}

	svc := news.NewService(store, analyzer, cache.New(cfg.CacheConfig), lexicon, cfg.EngineConfig)

	e := echo.New()
	e.HideBanner = true

	s := server.NewServer(e, sCfg)
	s.SetupHealthChecks("/health", pkgserver.NewOkHealthChecker())
	router.NewNewsRouter(e, svc).Bind()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func loadLexicon(path string) (*intent.Lexicon, error) {
	if path == "" {
		return intent.DefaultLexicon(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return intent.LoadLexicon(f)
}
