package rank

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ognjenm/news-pulse/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestDecayScores_WeightedRecency(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.Interaction{
		{ArticleID: "a1", Weight: 1.0, Timestamp: now},
		{ArticleID: "a1", Weight: 2.5, Timestamp: now.Add(-1 * time.Hour)},
	}

	scores := DecayScores(events, now, 24)

	require.Len(t, scores, 1)
	want := 1.0 + 2.5*math.Exp(-1)
	assert.InDelta(t, want, scores[0].Score, 1e-6)
}

func TestDecayScores_IgnoresEventsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.Interaction{
		{ArticleID: "a1", Weight: 1.0, Timestamp: now.Add(-25 * time.Hour)},
		{ArticleID: "a2", Weight: 1.5, Timestamp: now.Add(-2 * time.Hour)},
	}

	scores := DecayScores(events, now, 24)

	require.Len(t, scores, 1)
	assert.Equal(t, "a2", scores[0].ArticleID)
}

func TestTopCandidates_CutsAtTripleLimit(t *testing.T) {
	scores := make([]ArticleScore, 0, 10)
	for i := 0; i < 10; i++ {
		scores = append(scores, ArticleScore{ArticleID: string(rune('a' + i)), Score: float64(i)})
	}

	top := TopCandidates(scores, 2)

	require.Len(t, top, 6)
	assert.Equal(t, "j", top[0].ArticleID)
}

func TestApplyGeoBonus_Boundaries(t *testing.T) {
	queryLat, queryLon := 0.0, 0.0
	// ~50 km east along the equator: one degree is ~111.19 km.
	farLon := 50.0 / 111.19

	articles := map[string]domain.Article{
		"atQuery": {ID: "atQuery", Latitude: ptr(queryLat), Longitude: ptr(queryLon)},
		"at50km":  {ID: "at50km", Latitude: ptr(0.0), Longitude: ptr(farLon)},
	}
	candidates := []ArticleScore{
		{ArticleID: "atQuery", Score: 1.0},
		{ArticleID: "at50km", Score: 1.0},
	}

	ranked := ApplyGeoBonus(candidates, articles, queryLat, queryLon, 5)

	require.Len(t, ranked, 2)
	assert.Equal(t, "atQuery", ranked[0].Article.ID)
	// Bonus 1.0 at the query point doubles the base score.
	assert.InDelta(t, 2.0, ranked[0].Score, 1e-9)
	// Bonus ~0 at 50 km leaves the base score unchanged.
	assert.InDelta(t, 1.0, ranked[1].Score, 0.01)
}

func TestApplyGeoBonus_DiscardsUntaggedCandidates(t *testing.T) {
	articles := map[string]domain.Article{
		"untagged": {ID: "untagged"},
	}
	candidates := []ArticleScore{{ArticleID: "untagged", Score: 9.0}}

	assert.Empty(t, ApplyGeoBonus(candidates, articles, 0, 0, 5))
}

func TestTrending_EmptyWhenNoEventsInWindow(t *testing.T) {
	now := time.Now()
	events := []domain.Interaction{
		{ArticleID: "a1", Weight: 2.5, Timestamp: now.Add(-48 * time.Hour)},
	}
	articles := map[string]domain.Article{
		"a1": {ID: "a1", Latitude: ptr(1.0), Longitude: ptr(1.0)},
	}

	assert.Empty(t, Trending(events, articles, now, 1, 1, 5, 24))
}

func TestTrending_StableOrderOnTies(t *testing.T) {
	now := time.Now()
	events := []domain.Interaction{
		{ArticleID: "first", Weight: 1.0, Timestamp: now},
		{ArticleID: "second", Weight: 1.0, Timestamp: now},
	}
	articles := map[string]domain.Article{
		"first":  {ID: "first", Latitude: ptr(10.0), Longitude: ptr(10.0)},
		"second": {ID: "second", Latitude: ptr(10.0), Longitude: ptr(10.0)},
	}

	ranked := Trending(events, articles, now, 10, 10, 5, 24)

	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Article.ID)
	assert.Equal(t, "second", ranked[1].Article.ID)
}
