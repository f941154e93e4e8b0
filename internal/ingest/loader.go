// Package ingest loads the article dataset into the record store and
// simulates an initial interaction history for the trending ranker.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ognjenm/news-pulse/internal/domain"
	"github.com/ognjenm/news-pulse/internal/llm"
	"github.com/ognjenm/news-pulse/internal/storage"
)

const (
	// simulationSeed keeps the generated interaction history reproducible
	// across imports of the same dataset.
	simulationSeed = 42

	minEventsPerArticle = 5
	maxEventsPerArticle = 20

	// maxJitterMinutes spreads simulated events over the six hours before
	// the import, well inside the trending window.
	maxJitterMinutes = 360
)

// Loader ingests a JSON dataset: articles, summaries, and a simulated
// interaction history when the store has none yet.
type Loader struct {
	store      storage.Store
	summarizer llm.Summarizer

	now func() time.Time
}

func NewLoader(store storage.Store, summarizer llm.Summarizer) *Loader {
	if summarizer == nil {
		summarizer = llm.LocalSummarizer{}
	}
	return &Loader{
		store:      store,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// LoadFile reads a dataset file and ingests it.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	return l.Load(ctx, data)
}

// Load ingests a raw JSON article list: persists the articles, fills
// missing summaries, and simulates interactions.
func (l *Loader) Load(ctx context.Context, data []byte) error {
	var articles []domain.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return fmt.Errorf("failed to decode dataset: %w", err)
	}

	for i := range articles {
		if articles[i].ID == "" {
			articles[i].ID = uuid.NewString()
		}
	}

	if err := l.store.SaveArticles(ctx, articles); err != nil {
		return fmt.Errorf("failed to persist articles: %w", err)
	}
	slog.Info("articles ingested", "count", len(articles))

	if err := l.ensureSummaries(ctx, articles); err != nil {
		return err
	}

	return l.simulateInteractions(ctx, articles)
}

func (l *Loader) ensureSummaries(ctx context.Context, articles []domain.Article) error {
	for _, a := range articles {
		if a.Summary != "" {
			continue
		}
		summary, err := l.summarizer.Summarize(ctx, a.Title, a.Description)
		if err != nil {
			slog.Warn("summary generation failed, using fallback", "id", a.ID, "error", err)
			summary = llm.FallbackSummary(a.Title, a.Description)
		}
		if err := l.store.UpdateSummary(ctx, a.ID, summary); err != nil {
			return fmt.Errorf("failed to store summary for %s: %w", a.ID, err)
		}
	}
	return nil
}

// simulateInteractions seeds a reproducible engagement history: 5 to 20
// events per article, random type, timestamps jittered into the recent
// past, coordinates inherited from the article. Skipped entirely when the
// store already holds interactions.
func (l *Loader) simulateInteractions(ctx context.Context, articles []domain.Article) error {
	existing, err := l.store.HasInteractions(ctx)
	if err != nil {
		return fmt.Errorf("failed to check interactions: %w", err)
	}
	if existing {
		slog.Info("interactions already present, skipping simulation")
		return nil
	}

	rng := rand.New(rand.NewSource(simulationSeed))
	now := l.now().UTC()
	eventTypes := []domain.EventType{domain.EventView, domain.EventClick, domain.EventShare}

	var interactions []domain.Interaction
	for _, a := range articles {
		count := minEventsPerArticle + rng.Intn(maxEventsPerArticle-minEventsPerArticle+1)
		for i := 0; i < count; i++ {
			eventType := eventTypes[rng.Intn(len(eventTypes))]
			jitter := time.Duration(rng.Intn(maxJitterMinutes+1)) * time.Minute

			interactions = append(interactions, domain.Interaction{
				ID:        uuid.NewString(),
				ArticleID: a.ID,
				EventType: eventType,
				Weight:    domain.EventWeights[eventType],
				Latitude:  a.Latitude,
				Longitude: a.Longitude,
				Timestamp: now.Add(-jitter),
			})
		}
	}

	if err := l.store.AddInteractions(ctx, interactions); err != nil {
		return fmt.Errorf("failed to persist interactions: %w", err)
	}
	slog.Info("interactions simulated", "count", len(interactions), "articles", len(articles))
	return nil
}
