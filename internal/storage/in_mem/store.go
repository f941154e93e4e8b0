// Package in_mem is the map-backed record store used for local mode and tests.
package in_mem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ognjenm/news-pulse/internal/domain"
)

type Store struct {
	mu           sync.RWMutex
	articles     map[string]domain.Article
	order        []string // insertion order, keeps enumeration deterministic
	interactions []domain.Interaction
}

func NewStore() *Store {
	return &Store{
		articles: make(map[string]domain.Article),
	}
}

func (s *Store) SaveArticles(_ context.Context, articles []domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range articles {
		if _, exists := s.articles[a.ID]; !exists {
			s.order = append(s.order, a.ID)
		}
		s.articles[a.ID] = a
	}
	return nil
}

func (s *Store) UpdateSummary(_ context.Context, articleID, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.articles[articleID]; ok {
		a.Summary = summary
		s.articles[articleID] = a
	}
	return nil
}

func (s *Store) AllArticles(_ context.Context) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(domain.Article) bool { return true }), nil
}

func (s *Store) ArticlesByIDs(_ context.Context, ids []string) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.articles[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ArticlesByCategory(_ context.Context, category string, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.snapshot(func(a domain.Article) bool { return a.HasCategory(category) })
	sortNewestFirst(matched)
	return truncate(matched, limit), nil
}

func (s *Store) ArticlesBySource(_ context.Context, source string, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.snapshot(func(a domain.Article) bool { return strings.EqualFold(a.SourceName, source) })
	sortNewestFirst(matched)
	return truncate(matched, limit), nil
}

func (s *Store) ArticlesByScoreAtLeast(_ context.Context, threshold float64, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.snapshot(func(a domain.Article) bool { return a.RelevanceScore >= threshold })
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RelevanceScore > matched[j].RelevanceScore
	})
	return truncate(matched, limit), nil
}

func (s *Store) GeoTaggedArticles(_ context.Context) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(a domain.Article) bool { return a.GeoTagged() }), nil
}

func (s *Store) AddInteractions(_ context.Context, interactions []domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, interactions...)
	return nil
}

func (s *Store) HasInteractions(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions) > 0, nil
}

func (s *Store) InteractionsSince(_ context.Context, since time.Time) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Interaction, 0)
	for _, ev := range s.interactions {
		if !ev.Timestamp.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Store) snapshot(keep func(domain.Article) bool) []domain.Article {
	out := make([]domain.Article, 0, len(s.order))
	for _, id := range s.order {
		if a := s.articles[id]; keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func sortNewestFirst(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

func truncate(articles []domain.Article, limit int) []domain.Article {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
