// Package storage defines the record-store contract the engine queries.
// Backends live in subpackages and are selected through the factory.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ognjenm/news-pulse/internal/domain"
)

// Store is the record-store collaborator: durable articles and append-only
// interactions. Every query returns value objects; an empty result is not
// an error.
type Store interface {
	SaveArticles(ctx context.Context, articles []domain.Article) error
	UpdateSummary(ctx context.Context, articleID, summary string) error

	AllArticles(ctx context.Context) ([]domain.Article, error)
	ArticlesByIDs(ctx context.Context, ids []string) ([]domain.Article, error)
	ArticlesByCategory(ctx context.Context, category string, limit int) ([]domain.Article, error)
	ArticlesBySource(ctx context.Context, source string, limit int) ([]domain.Article, error)
	ArticlesByScoreAtLeast(ctx context.Context, threshold float64, limit int) ([]domain.Article, error)
	GeoTaggedArticles(ctx context.Context) ([]domain.Article, error)

	AddInteractions(ctx context.Context, interactions []domain.Interaction) error
	HasInteractions(ctx context.Context) (bool, error)
	InteractionsSince(ctx context.Context, since time.Time) ([]domain.Interaction, error)
}

// Type names a storage backend.
type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

// ErrUnsupportedType is returned by the factory for unknown backend names.
type ErrUnsupportedType Type

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported storage type: %s", string(e))
}
