package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/update"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/ognjenm/news-pulse/internal/domain"
)

// maxPageSize bounds unfiltered scans. The corpus is a few thousand
// articles, so a single page is enough.
const maxPageSize = 10000

// Store is the Elasticsearch-backed record store. Articles and interactions
// live in separate indices so interaction churn never touches article segments.
type Store struct {
	client           *elasticsearch.TypedClient
	articleIndex     string
	interactionIndex string
}

func NewStore(ctx context.Context, config ClientConfig) (*Store, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	s := &Store{
		client:           client,
		articleIndex:     config.ArticleIndex,
		interactionIndex: config.InteractionIndex,
	}

	if err := s.ensureIndex(ctx, s.articleIndex, buildArticleMapping()); err != nil {
		return nil, err
	}
	if err := s.ensureIndex(ctx, s.interactionIndex, buildInteractionMapping()); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndex(ctx context.Context, name string, mapping types.TypeMapping) error {
	exists, err := s.client.Indices.Exists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", name)
		return nil
	}

	createRes, err := s.client.Indices.Create(name).
		Mappings(&mapping).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", name)
	return nil
}

func (s *Store) SaveArticles(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         s.articleIndex,
		Client:        s.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed int64

	for _, article := range articles {
		doc := mapToArticleDocument(article)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", doc.ID)
			failed++
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: doc.ID,
				Body:       bytes.NewReader(docBytes),
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed++
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed++
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("failed to index %d out of %d articles", failed, len(articles))
	}

	slog.Info("articles indexed", "count", len(articles), "index", s.articleIndex)
	return nil
}

func (s *Store) UpdateSummary(ctx context.Context, articleID, summary string) error {
	doc, err := json.Marshal(map[string]string{"llm_summary": summary})
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	_, err = s.client.Update(s.articleIndex, articleID).
		Request(&update.Request{Doc: doc}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to update summary for %s: %w", articleID, err)
	}
	return nil
}

func (s *Store) AllArticles(ctx context.Context) ([]domain.Article, error) {
	return s.searchArticles(ctx, &types.Query{
		MatchAll: &types.MatchAllQuery{},
	}, maxPageSize, sortByField("published_at", sortorder.Desc))
}

func (s *Store) ArticlesByIDs(ctx context.Context, ids []string) ([]domain.Article, error) {
	if len(ids) == 0 {
		return []domain.Article{}, nil
	}
	return s.searchArticles(ctx, &types.Query{
		Ids: &types.IdsQuery{Values: ids},
	}, len(ids), nil)
}

func (s *Store) ArticlesByCategory(ctx context.Context, category string, limit int) ([]domain.Article, error) {
	caseInsensitive := true
	return s.searchArticles(ctx, &types.Query{
		Term: map[string]types.TermQuery{
			"categories": {
				Value:           category,
				CaseInsensitive: &caseInsensitive,
			},
		},
	}, limit, sortByField("published_at", sortorder.Desc))
}

func (s *Store) ArticlesBySource(ctx context.Context, source string, limit int) ([]domain.Article, error) {
	caseInsensitive := true
	return s.searchArticles(ctx, &types.Query{
		Term: map[string]types.TermQuery{
			"source_name.keyword": {
				Value:           source,
				CaseInsensitive: &caseInsensitive,
			},
		},
	}, limit, sortByField("published_at", sortorder.Desc))
}

func (s *Store) ArticlesByScoreAtLeast(ctx context.Context, threshold float64, limit int) ([]domain.Article, error) {
	gte := types.Float64(threshold)
	return s.searchArticles(ctx, &types.Query{
		Range: map[string]types.RangeQuery{
			"relevance_score": types.NumberRangeQuery{Gte: &gte},
		},
	}, limit, sortByField("relevance_score", sortorder.Desc))
}

func (s *Store) GeoTaggedArticles(ctx context.Context) ([]domain.Article, error) {
	return s.searchArticles(ctx, &types.Query{
		Bool: &types.BoolQuery{
			Must: []types.Query{
				{Exists: &types.ExistsQuery{Field: "latitude"}},
				{Exists: &types.ExistsQuery{Field: "longitude"}},
			},
		},
	}, maxPageSize, nil)
}

func (s *Store) AddInteractions(ctx context.Context, interactions []domain.Interaction) error {
	for _, ev := range interactions {
		doc := mapToInteractionDocument(ev)
		if _, err := s.client.Index(s.interactionIndex).Id(doc.ID).Document(doc).Do(ctx); err != nil {
			return fmt.Errorf("failed to index interaction %s: %w", doc.ID, err)
		}
	}
	return nil
}

func (s *Store) HasInteractions(ctx context.Context) (bool, error) {
	res, err := s.client.Count().Index(s.interactionIndex).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count interactions: %w", err)
	}
	return res.Count > 0, nil
}

func (s *Store) InteractionsSince(ctx context.Context, since time.Time) ([]domain.Interaction, error) {
	gte := since.UTC().Format(time.RFC3339)
	res, err := s.client.Search().
		Index(s.interactionIndex).
		Query(&types.Query{
			Range: map[string]types.RangeQuery{
				"ts": types.DateRangeQuery{Gte: &gte},
			},
		}).
		Size(maxPageSize).
		Sort(sortByField("ts", sortorder.Asc)).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}

	interactions := make([]domain.Interaction, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc interactionDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
		}
		interactions = append(interactions, doc.toDomain())
	}
	return interactions, nil
}

func (s *Store) searchArticles(ctx context.Context, query *types.Query, size int, sort *types.SortOptions) ([]domain.Article, error) {
	searchReq := s.client.Search().
		Index(s.articleIndex).
		Query(query).
		Size(size)

	if sort != nil {
		searchReq = searchReq.Sort(sort)
	}

	res, err := searchReq.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	articles := make([]domain.Article, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc articleDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		articles = append(articles, doc.toDomain())
	}
	return articles, nil
}

func sortByField(field string, order sortorder.SortOrder) *types.SortOptions {
	return &types.SortOptions{
		SortOptions: map[string]types.FieldSort{
			field: {Order: &order},
		},
	}
}
