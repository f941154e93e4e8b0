// Package pg is the PostgreSQL record store backend.
package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ognjenm/news-pulse/internal/domain"
)

const articleColumns = `id, title, description, url, published_at, source_name, categories, relevance_score, latitude, longitude, llm_summary`

const schema = `
CREATE TABLE IF NOT EXISTS articles (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  published_at TIMESTAMPTZ NOT NULL,
  source_name TEXT NOT NULL DEFAULT '',
  categories JSONB NOT NULL DEFAULT '[]',
  relevance_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  latitude DOUBLE PRECISION,
  longitude DOUBLE PRECISION,
  llm_summary TEXT
);

CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
CREATE INDEX IF NOT EXISTS idx_articles_relevance ON articles(relevance_score);
CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(lower(source_name));
CREATE INDEX IF NOT EXISTS idx_articles_categories ON articles USING GIN (categories);

CREATE TABLE IF NOT EXISTS interactions (
  id TEXT PRIMARY KEY,
  article_id TEXT NOT NULL REFERENCES articles(id),
  event_type TEXT NOT NULL,
  weight DOUBLE PRECISION NOT NULL DEFAULT 1.0,
  latitude DOUBLE PRECISION,
  longitude DOUBLE PRECISION,
  ts TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interactions_ts ON interactions(ts);
CREATE INDEX IF NOT EXISTS idx_interactions_article ON interactions(article_id);
`

type Store struct {
	db *pgxpool.Pool
}

// NewStore wires a Store over the pool and ensures the schema exists.
func NewStore(ctx context.Context, pool *ConnectionPool) (*Store, error) {
	s := &Store{db: pool.conn}
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) SaveArticles(ctx context.Context, articles []domain.Article) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := `
INSERT INTO articles (` + articleColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  description = EXCLUDED.description,
  url = EXCLUDED.url,
  published_at = EXCLUDED.published_at,
  source_name = EXCLUDED.source_name,
  categories = EXCLUDED.categories,
  relevance_score = EXCLUDED.relevance_score,
  latitude = EXCLUDED.latitude,
  longitude = EXCLUDED.longitude,
  llm_summary = EXCLUDED.llm_summary
`

	for _, a := range articles {
		categories, err := json.Marshal(a.Categories)
		if err != nil {
			return fmt.Errorf("marshal categories for %s: %w", a.ID, err)
		}
		_, err = tx.Exec(ctx, stmt,
			a.ID, a.Title, a.Description, a.URL, a.PublishedAt, a.SourceName,
			categories, a.RelevanceScore, a.Latitude, a.Longitude, nullable(a.Summary),
		)
		if err != nil {
			return fmt.Errorf("insert article %s: %w", a.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) UpdateSummary(ctx context.Context, articleID, summary string) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET llm_summary = $1 WHERE id = $2`, summary, articleID)
	if err != nil {
		return fmt.Errorf("update summary for %s: %w", articleID, err)
	}
	return nil
}

func (s *Store) AllArticles(ctx context.Context) ([]domain.Article, error) {
	return s.queryArticles(ctx, `
SELECT `+articleColumns+`
FROM articles
ORDER BY published_at DESC, id`)
}

func (s *Store) ArticlesByIDs(ctx context.Context, ids []string) ([]domain.Article, error) {
	if len(ids) == 0 {
		return []domain.Article{}, nil
	}
	return s.queryArticles(ctx, `
SELECT `+articleColumns+`
FROM articles
WHERE id = ANY($1)`, ids)
}

func (s *Store) ArticlesByCategory(ctx context.Context, category string, limit int) ([]domain.Article, error) {
	return s.queryArticles(ctx, `
SELECT `+articleColumns+`
FROM articles
WHERE EXISTS (
  SELECT 1 FROM jsonb_array_elements_text(categories) AS c
  WHERE lower(c) = lower($1)
)
ORDER BY published_at DESC
LIMIT $2`, category, limit)
}

func (s *Store) ArticlesBySource(ctx context.Context, source string, limit int) ([]domain.Article, error) {
	return s.queryArticles(ctx, `
SELECT `+articleColumns+`
FROM articles
WHERE lower(source_name) = lower($1)
ORDER BY published_at DESC
LIMIT $2`, source, limit)
}

func (s *Store) ArticlesByScoreAtLeast(ctx context.Context, threshold float64, limit int) ([]domain.Article, error) {
	return s.queryArticles(ctx, `
SELECT `+articleColumns+`
FROM articles
WHERE relevance_score >= $1
ORDER BY relevance_score DESC
LIMIT $2`, threshold, limit)
}

func (s *Store) GeoTaggedArticles(ctx context.Context) ([]domain.Article, error) {
	return s.queryArticles(ctx, `
SELECT `+articleColumns+`
FROM articles
WHERE latitude IS NOT NULL AND longitude IS NOT NULL
ORDER BY published_at DESC, id`)
}

func (s *Store) AddInteractions(ctx context.Context, interactions []domain.Interaction) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := `
INSERT INTO interactions (id, article_id, event_type, weight, latitude, longitude, ts)
VALUES ($1,$2,$3,$4,$5,$6,$7)`

	for _, ev := range interactions {
		_, err := tx.Exec(ctx, stmt,
			ev.ID, ev.ArticleID, string(ev.EventType), ev.Weight, ev.Latitude, ev.Longitude, ev.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert interaction %s: %w", ev.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) HasInteractions(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM interactions)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check interactions: %w", err)
	}
	return exists, nil
}

func (s *Store) InteractionsSince(ctx context.Context, since time.Time) ([]domain.Interaction, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, article_id, event_type, weight, latitude, longitude, ts
FROM interactions
WHERE ts >= $1
ORDER BY ts, id`, since)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Interaction
	for rows.Next() {
		var ev domain.Interaction
		var eventType string
		if err := rows.Scan(&ev.ID, &ev.ArticleID, &eventType, &ev.Weight, &ev.Latitude, &ev.Longitude, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ev.EventType = domain.EventType(eventType)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) queryArticles(ctx context.Context, sql string, args ...any) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanArticle(rows pgx.Rows) (domain.Article, error) {
	var a domain.Article
	var categoriesJSON []byte
	var summary *string

	err := rows.Scan(
		&a.ID, &a.Title, &a.Description, &a.URL, &a.PublishedAt, &a.SourceName,
		&categoriesJSON, &a.RelevanceScore, &a.Latitude, &a.Longitude, &summary,
	)
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	if err := json.Unmarshal(categoriesJSON, &a.Categories); err != nil {
		return domain.Article{}, fmt.Errorf("unmarshal categories: %w", err)
	}
	if summary != nil {
		a.Summary = *summary
	}
	return a, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
