package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ognjenm/news-pulse/internal/domain"
	"github.com/ognjenm/news-pulse/internal/storage/in_mem"
)

// countingStore tracks interaction scans so tests can observe cache hits.
type countingStore struct {
	*in_mem.Store
	scans int
}

func (c *countingStore) InteractionsSince(ctx context.Context, since time.Time) ([]domain.Interaction, error) {
	c.scans++
	return c.Store.InteractionsSince(ctx, since)
}

func seedInteractions(t *testing.T, store *in_mem.Store) {
	t.Helper()
	now := fixtureTime()
	err := store.AddInteractions(t.Context(), []domain.Interaction{
		{ID: "e1", ArticleID: "a1", EventType: domain.EventView, Weight: 1.0, Timestamp: now.Add(-time.Hour), Latitude: ptr(37.44), Longitude: ptr(-122.14)},
		{ID: "e2", ArticleID: "a1", EventType: domain.EventShare, Weight: 2.5, Timestamp: now.Add(-30 * time.Minute), Latitude: ptr(37.44), Longitude: ptr(-122.14)},
		{ID: "e3", ArticleID: "a2", EventType: domain.EventClick, Weight: 1.5, Timestamp: now.Add(-2 * time.Hour), Latitude: ptr(37.48), Longitude: ptr(-122.15)},
		// Outside the 24h window, must not count.
		{ID: "e4", ArticleID: "a2", EventType: domain.EventShare, Weight: 2.5, Timestamp: now.Add(-30 * time.Hour), Latitude: ptr(37.48), Longitude: ptr(-122.15)},
	})
	require.NoError(t, err)
}

func TestTrendingRanksByDecayAndProximity(t *testing.T) {
	store := seedStore(t)
	seedInteractions(t, store)
	svc := newTestService(t, store)

	articles, err := svc.Trending(t.Context(), 37.44, -122.14, 5)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "a1", articles[0].Article.ID)
	assert.Equal(t, "a2", articles[1].Article.ID)
}

func TestTrendingServesCachedBucket(t *testing.T) {
	inner := seedStore(t)
	seedInteractions(t, inner)
	store := &countingStore{Store: inner}
	svc := NewService(store, nil, nil, nil, Config{})
	svc.now = fixtureTime

	_, err := svc.Trending(t.Context(), 37.44, -122.14, 5)
	require.NoError(t, err)
	require.Equal(t, 1, store.scans)

	// Nearby coordinates round into the same half-degree bucket.
	_, err = svc.Trending(t.Context(), 37.50, -122.20, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, store.scans)

	// A different bucket forces a fresh computation.
	_, err = svc.Trending(t.Context(), 40.0, -74.0, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, store.scans)
}

func TestTrendingEmptyWithoutInteractions(t *testing.T) {
	svc := newTestService(t, seedStore(t))

	articles, err := svc.Trending(t.Context(), 37.44, -122.14, 5)
	require.NoError(t, err)
	assert.Empty(t, articles)
}
