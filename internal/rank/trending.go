package rank

import (
	"math"
	"sort"
	"time"

	"github.com/ognjenm/news-pulse/internal/domain"
	"github.com/ognjenm/news-pulse/internal/geo"
)

const (
	// DefaultWindowHours bounds how far back interactions count.
	DefaultWindowHours = 24

	// geoBonusRadiusKm is the distance at which the proximity bonus
	// decays to zero.
	geoBonusRadiusKm = 50.0

	// candidateFactor is the raw-popularity pre-filter cut: only the top
	// limit*candidateFactor articles by base score can surface, however
	// close they are. Tuning knob, kept at the original value.
	candidateFactor = 3
)

// ArticleScore pairs an article ID with its decay-weighted popularity.
type ArticleScore struct {
	ArticleID string
	Score     float64
}

// DecayScores aggregates interactions inside the window into one popularity
// score per article: sum of weight * exp(-hours since the event). The decay
// constant is exactly one per hour. Results keep the first-seen enumeration
// order of the input so that downstream tie-breaking stays deterministic.
func DecayScores(events []domain.Interaction, now time.Time, windowHours int) []ArticleScore {
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}
	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)

	index := make(map[string]int)
	scores := make([]ArticleScore, 0)

	for _, ev := range events {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		hours := math.Abs(now.Sub(ev.Timestamp).Hours())
		contribution := ev.Weight * math.Exp(-hours)

		if i, ok := index[ev.ArticleID]; ok {
			scores[i].Score += contribution
			continue
		}
		index[ev.ArticleID] = len(scores)
		scores = append(scores, ArticleScore{ArticleID: ev.ArticleID, Score: contribution})
	}

	return scores
}

// TopCandidates sorts by base score descending (stable) and cuts at
// limit * candidateFactor.
func TopCandidates(scores []ArticleScore, limit int) []ArticleScore {
	out := make([]ArticleScore, len(scores))
	copy(out, scores)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	cut := limit * candidateFactor
	if cut > 0 && len(out) > cut {
		out = out[:cut]
	}
	return out
}

// ApplyGeoBonus turns base-score candidates into the final trending ranking
// for a query location. Candidates without both coordinates are discarded:
// the proximity stage is mandatory, so a purely popular but untagged article
// never surfaces. The bonus is multiplicative, 1.0 at the query point and
// 0 at geoBonusRadiusKm or beyond.
func ApplyGeoBonus(candidates []ArticleScore, articles map[string]domain.Article, lat, lon float64, limit int) []Scored {
	ranked := make([]Scored, 0, len(candidates))
	for _, cand := range candidates {
		article, ok := articles[cand.ArticleID]
		if !ok || !article.GeoTagged() {
			continue
		}
		dist := geo.Haversine(lat, lon, *article.Latitude, *article.Longitude)
		bonus := math.Max(0, 1-dist/geoBonusRadiusKm)
		ranked = append(ranked, Scored{
			Article: article,
			Score:   cand.Score * (1 + bonus),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Trending runs the whole pipeline in memory: window filter, decay
// aggregation, candidate cut, geo bonus.
func Trending(events []domain.Interaction, articles map[string]domain.Article, now time.Time, lat, lon float64, limit, windowHours int) []Scored {
	base := DecayScores(events, now, windowHours)
	candidates := TopCandidates(base, limit)
	return ApplyGeoBonus(candidates, articles, lat, lon, limit)
}
