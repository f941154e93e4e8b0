// Package news is the query resolution engine: it turns a retrieval intent
// plus its value into a ranked article list, delegating persistence to the
// record store and ranking math to internal/rank.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ognjenm/news-pulse/internal/cache"
	"github.com/ognjenm/news-pulse/internal/domain"
	"github.com/ognjenm/news-pulse/internal/geo"
	"github.com/ognjenm/news-pulse/internal/intent"
	"github.com/ognjenm/news-pulse/internal/rank"
	"github.com/ognjenm/news-pulse/internal/storage"
)

const (
	// DefaultNearbyRadiusKm is the fixed radius of the nearby strategy.
	DefaultNearbyRadiusKm = 10.0

	// DefaultLimit applies when the caller does not bound the result.
	DefaultLimit = 5
)

// RankedArticle is an article paired with the transient annotations a
// retrieval strategy produced for it. Annotations never persist.
type RankedArticle struct {
	Article    domain.Article
	Score      *float64
	DistanceKm *float64
}

// Result is what a resolved query returns: the strategy that ran, the value
// it ran with, and the ranked articles.
type Result struct {
	Intent   domain.Intent
	Value    string
	Articles []RankedArticle
}

// Config tunes the engine. Zero values fall back to the defaults the
// ranking math was calibrated with.
type Config struct {
	WindowHours    int
	NearbyRadiusKm float64
}

type Service struct {
	store    storage.Store
	analyzer intent.Analyzer
	fallback *intent.HeuristicParser
	lexicon  *intent.Lexicon
	trending *cache.TrendingCache
	cfg      Config

	now func() time.Time
}

// NewService wires the engine. analyzer may be nil, in which case the
// heuristic parser serves every query directly.
func NewService(store storage.Store, analyzer intent.Analyzer, trending *cache.TrendingCache, lexicon *intent.Lexicon, cfg Config) *Service {
	if lexicon == nil {
		lexicon = intent.DefaultLexicon()
	}
	if trending == nil {
		trending = cache.New(cache.Config{})
	}
	if cfg.WindowHours <= 0 {
		cfg.WindowHours = rank.DefaultWindowHours
	}
	if cfg.NearbyRadiusKm <= 0 {
		cfg.NearbyRadiusKm = DefaultNearbyRadiusKm
	}

	fallback := intent.NewHeuristicParser(lexicon)
	if analyzer == nil {
		analyzer = fallback
	}

	return &Service{
		store:    store,
		analyzer: analyzer,
		fallback: fallback,
		lexicon:  lexicon,
		trending: trending,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ByCategory returns the newest articles in a category, case-insensitive.
func (s *Service) ByCategory(ctx context.Context, category string, limit int) ([]RankedArticle, error) {
	articles, err := s.store.ArticlesByCategory(ctx, category, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("category lookup failed: %w", err)
	}
	return plain(articles), nil
}

// BySource returns the newest articles from a source, case-insensitive.
func (s *Service) BySource(ctx context.Context, source string, limit int) ([]RankedArticle, error) {
	articles, err := s.store.ArticlesBySource(ctx, source, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("source lookup failed: %w", err)
	}
	return plain(articles), nil
}

// ByScore returns articles at or above a relevance threshold, highest first.
func (s *Service) ByScore(ctx context.Context, threshold float64, limit int) ([]RankedArticle, error) {
	articles, err := s.store.ArticlesByScoreAtLeast(ctx, threshold, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("score lookup failed: %w", err)
	}
	return plain(articles), nil
}

// Search ranks the whole corpus against the query tokens and returns the
// top matches with their search scores attached.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]RankedArticle, error) {
	articles, err := s.store.AllArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("search scan failed: %w", err)
	}

	scored := rank.Search(articles, query, normalizeLimit(limit))
	ranked := make([]RankedArticle, 0, len(scored))
	for _, sc := range scored {
		score := sc.Score
		ranked = append(ranked, RankedArticle{Article: sc.Article, Score: &score})
	}
	return ranked, nil
}

// Nearby returns geo-tagged articles within radiusKm of the query point,
// nearest first, with distances attached. A non-positive radius falls back
// to the configured default.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]RankedArticle, error) {
	if radiusKm <= 0 {
		radiusKm = s.cfg.NearbyRadiusKm
	}

	articles, err := s.store.GeoTaggedArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearby scan failed: %w", err)
	}

	ranked := make([]RankedArticle, 0, len(articles))
	for _, a := range articles {
		dist := geo.Haversine(lat, lon, *a.Latitude, *a.Longitude)
		if dist > radiusKm {
			continue
		}
		d := dist
		ranked = append(ranked, RankedArticle{Article: a, DistanceKm: &d})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].DistanceKm < *ranked[j].DistanceKm
	})

	limit = normalizeLimit(limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Trending serves the decay-ranked, proximity-boosted list for the query
// point, memoized per coordinate bucket.
func (s *Service) Trending(ctx context.Context, lat, lon float64, limit int) ([]RankedArticle, error) {
	limit = normalizeLimit(limit)

	articles, err := s.trending.GetOrCompute(lat, lon, func() ([]domain.Article, error) {
		return s.computeTrending(ctx, lat, lon, limit)
	})
	if err != nil {
		return nil, err
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	return plain(articles), nil
}

func (s *Service) computeTrending(ctx context.Context, lat, lon float64, limit int) ([]domain.Article, error) {
	now := s.now()
	since := now.Add(-time.Duration(s.cfg.WindowHours) * time.Hour)

	events, err := s.store.InteractionsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("interaction scan failed: %w", err)
	}
	if len(events) == 0 {
		return []domain.Article{}, nil
	}

	ids := make([]string, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.ArticleID]; ok {
			continue
		}
		seen[ev.ArticleID] = struct{}{}
		ids = append(ids, ev.ArticleID)
	}

	articles, err := s.store.ArticlesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("article lookup failed: %w", err)
	}
	byID := make(map[string]domain.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	scored := rank.Trending(events, byID, now, lat, lon, limit, s.cfg.WindowHours)

	slog.Info("trending computed",
		"events", len(events),
		"candidates", len(byID),
		"returned", len(scored))

	result := make([]domain.Article, 0, len(scored))
	for _, sc := range scored {
		result = append(result, sc.Article)
	}
	return result, nil
}

func plain(articles []domain.Article) []RankedArticle {
	ranked := make([]RankedArticle, 0, len(articles))
	for _, a := range articles {
		ranked = append(ranked, RankedArticle{Article: a})
	}
	return ranked
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
