package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ognjenm/news-pulse/internal/domain"
	"github.com/ognjenm/news-pulse/internal/storage/in_mem"
)

func ptr(v float64) *float64 { return &v }

func fixtureTime() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func seedStore(t *testing.T) *in_mem.Store {
	t.Helper()
	s := in_mem.NewStore()

	now := fixtureTime()
	err := s.SaveArticles(t.Context(), []domain.Article{
		{
			ID:             "a1",
			Title:          "Transit expansion reaches the east side",
			Description:    "The city extends light rail coverage.",
			SourceName:     "City Desk",
			Categories:     []string{"Local", "Policy"},
			RelevanceScore: 0.9,
			PublishedAt:    now.Add(-2 * time.Hour),
			Latitude:       ptr(37.44),
			Longitude:      ptr(-122.14),
		},
		{
			ID:             "a2",
			Title:          "Chip makers report record output",
			Description:    "Semiconductor plants run at capacity.",
			SourceName:     "Wire Service",
			Categories:     []string{"Technology", "Business"},
			RelevanceScore: 0.6,
			PublishedAt:    now.Add(-1 * time.Hour),
			Latitude:       ptr(37.48),
			Longitude:      ptr(-122.15),
		},
		{
			ID:             "a3",
			Title:          "Markets close mixed",
			Description:    "Trading ends flat after a volatile week.",
			SourceName:     "City Desk",
			Categories:     []string{"Business"},
			RelevanceScore: 0.3,
			PublishedAt:    now.Add(-30 * time.Minute),
		},
	})
	require.NoError(t, err)
	return s
}

func newTestService(t *testing.T, store *in_mem.Store) *Service {
	t.Helper()
	svc := NewService(store, nil, nil, nil, Config{})
	svc.now = fixtureTime
	return svc
}

func TestResolveScoreDefaultsThreshold(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	res, err := svc.Resolve(t.Context(), domain.IntentScore, "abc", nil, nil, 10)
	require.NoError(t, err)

	assert.Equal(t, domain.IntentScore, res.Intent)
	assert.Equal(t, "0.7", res.Value)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "a1", res.Articles[0].Article.ID)
}

func TestResolveScoreParsesThreshold(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	res, err := svc.Resolve(t.Context(), domain.IntentScore, "0.5", nil, nil, 10)
	require.NoError(t, err)

	require.Len(t, res.Articles, 2)
	assert.Equal(t, "a1", res.Articles[0].Article.ID)
	assert.Equal(t, "a2", res.Articles[1].Article.ID)
}

func TestResolveNearbyWithoutCoordsFallsBackToSearch(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	res, err := svc.Resolve(t.Context(), domain.IntentNearby, "transit", nil, nil, 10)
	require.NoError(t, err)

	assert.Equal(t, domain.IntentSearch, res.Intent)
	require.NotEmpty(t, res.Articles)
	assert.Equal(t, "a1", res.Articles[0].Article.ID)
	require.NotNil(t, res.Articles[0].Score)
}

func TestResolveCategoryNewestFirst(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	res, err := svc.Resolve(t.Context(), domain.IntentCategory, "business", nil, nil, 10)
	require.NoError(t, err)

	require.Len(t, res.Articles, 2)
	assert.Equal(t, "a3", res.Articles[0].Article.ID)
	assert.Equal(t, "a2", res.Articles[1].Article.ID)
}

func TestResolveIsIdempotent(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	first, err := svc.Resolve(t.Context(), domain.IntentSource, "city desk", nil, nil, 10)
	require.NoError(t, err)
	second, err := svc.Resolve(t.Context(), domain.IntentSource, "city desk", nil, nil, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNearbySortsByDistanceWithinRadius(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	// Query point sits on a1; a2 is ~4.5 km away, a3 has no coordinates.
	articles, err := svc.Nearby(t.Context(), 37.44, -122.14, 0, 10)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "a1", articles[0].Article.ID)
	assert.Equal(t, "a2", articles[1].Article.ID)
	require.NotNil(t, articles[0].DistanceKm)
	assert.InDelta(t, 0, *articles[0].DistanceKm, 0.001)
	assert.Greater(t, *articles[1].DistanceKm, 0.0)
}

func TestNearbyExcludesOutsideRadius(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	// Berlin is nowhere near the fixture coordinates.
	articles, err := svc.Nearby(t.Context(), 52.52, 13.40, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestQueryUsesHeuristicWhenAnalyzerFails(t *testing.T) {
	store := seedStore(t)
	svc := NewService(store, failingAnalyzer{}, nil, nil, Config{})
	svc.now = fixtureTime

	res, err := svc.Query(t.Context(), "top technology stories", nil, nil, 10)
	require.NoError(t, err)

	assert.Equal(t, domain.IntentCategory, res.Intent)
	assert.Equal(t, "Technology", res.Value)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "a2", res.Articles[0].Article.ID)
}

func TestQueryDerivesSourceFromEntities(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	res, err := svc.Query(t.Context(), "news from Wire Service", nil, nil, 10)
	require.NoError(t, err)

	assert.Equal(t, domain.IntentSource, res.Intent)
	assert.Equal(t, "Wire Service", res.Value)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "a2", res.Articles[0].Article.ID)
}

type failingAnalyzer struct{}

func (failingAnalyzer) AnalyzeQuery(context.Context, string) (domain.ParsedIntent, error) {
	return domain.ParsedIntent{}, errors.New("model unavailable")
}
