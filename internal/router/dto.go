package router

import (
	"time"

	"github.com/ognjenm/news-pulse/internal/news"
	"github.com/ognjenm/news-pulse/pkg/utils"
)

// scoreDecimalPlaces rounds transient ranking annotations in responses.
const scoreDecimalPlaces = 4

// ArticleResponse is the wire shape of an article plus the transient
// annotations the retrieval strategy produced.
type ArticleResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"publication_date"`
	SourceName     string    `json:"source_name"`
	Categories     []string  `json:"category"`
	RelevanceScore float64   `json:"relevance_score"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Summary        string    `json:"llm_summary,omitempty"`

	Score      *float64 `json:"score,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// QueryRequest is the natural-language query payload.
type QueryRequest struct {
	Query      string   `json:"query"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// QueryResponse wraps the resolved articles with the strategy that ran.
type QueryResponse struct {
	Intent   string            `json:"intent"`
	Value    string            `json:"value"`
	Articles []ArticleResponse `json:"articles"`
}

func mapToResponse(ranked []news.RankedArticle) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(ranked))
	for _, r := range ranked {
		resp := ArticleResponse{
			ID:             r.Article.ID,
			Title:          r.Article.Title,
			Description:    r.Article.Description,
			URL:            r.Article.URL,
			PublishedAt:    r.Article.PublishedAt,
			SourceName:     r.Article.SourceName,
			Categories:     r.Article.Categories,
			RelevanceScore: r.Article.RelevanceScore,
			Latitude:       r.Article.Latitude,
			Longitude:      r.Article.Longitude,
			Summary:        r.Article.Summary,
		}
		if r.Score != nil {
			score := utils.RoundDecimal(*r.Score, scoreDecimalPlaces)
			resp.Score = &score
		}
		if r.DistanceKm != nil {
			dist := utils.RoundDecimal(*r.DistanceKm, scoreDecimalPlaces)
			resp.DistanceKm = &dist
		}
		out = append(out, resp)
	}
	return out
}
