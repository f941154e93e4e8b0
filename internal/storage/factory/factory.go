package factory

import (
	"context"
	"fmt"

	"github.com/ognjenm/news-pulse/internal/storage"
	"github.com/ognjenm/news-pulse/internal/storage/es"
	"github.com/ognjenm/news-pulse/internal/storage/in_mem"
	"github.com/ognjenm/news-pulse/internal/storage/pg"
)

// NewStore creates a storage.Store for the configured backend.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return pg.NewStore(ctx, pool)

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}

		return es.NewStore(ctx, *cfg.Es)

	case storage.InMem:
		return in_mem.NewStore(), nil

	default:
		return nil, storage.ErrUnsupportedType(cfg.Type)
	}
}
