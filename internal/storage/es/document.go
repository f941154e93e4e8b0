package es

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/ognjenm/news-pulse/internal/domain"
)

// articleDocument is the Elasticsearch shape of a domain.Article.
type articleDocument struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"published_at"`
	SourceName     string    `json:"source_name"`
	Categories     []string  `json:"categories"`
	RelevanceScore float64   `json:"relevance_score"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Summary        string    `json:"llm_summary,omitempty"`
	IndexedAt      time.Time `json:"indexed_at"`
}

type interactionDocument struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	EventType string    `json:"event_type"`
	Weight    float64   `json:"weight"`
	Timestamp time.Time `json:"ts"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
}

func mapToArticleDocument(a domain.Article) articleDocument {
	return articleDocument{
		ID:             a.ID,
		Title:          a.Title,
		Description:    a.Description,
		URL:            a.URL,
		PublishedAt:    a.PublishedAt,
		SourceName:     a.SourceName,
		Categories:     a.Categories,
		RelevanceScore: a.RelevanceScore,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		Summary:        a.Summary,
		IndexedAt:      time.Now(),
	}
}

func (d articleDocument) toDomain() domain.Article {
	return domain.Article{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		URL:            d.URL,
		PublishedAt:    d.PublishedAt,
		SourceName:     d.SourceName,
		Categories:     d.Categories,
		RelevanceScore: d.RelevanceScore,
		Latitude:       d.Latitude,
		Longitude:      d.Longitude,
		Summary:        d.Summary,
	}
}

func mapToInteractionDocument(ev domain.Interaction) interactionDocument {
	return interactionDocument{
		ID:        ev.ID,
		ArticleID: ev.ArticleID,
		EventType: string(ev.EventType),
		Weight:    ev.Weight,
		Timestamp: ev.Timestamp,
		Latitude:  ev.Latitude,
		Longitude: ev.Longitude,
	}
}

func (d interactionDocument) toDomain() domain.Interaction {
	return domain.Interaction{
		ID:        d.ID,
		ArticleID: d.ArticleID,
		EventType: domain.EventType(d.EventType),
		Weight:    d.Weight,
		Timestamp: d.Timestamp,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
	}
}

func buildArticleMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":              types.NewKeywordProperty(),
			"title":           textPropertyWithKeyword(),
			"description":     types.NewTextProperty(),
			"url":             types.NewKeywordProperty(),
			"published_at":    types.NewDateProperty(),
			"source_name":     textPropertyWithKeyword(),
			"categories":      types.NewKeywordProperty(),
			"relevance_score": types.NewDoubleNumberProperty(),
			"latitude":        types.NewDoubleNumberProperty(),
			"longitude":       types.NewDoubleNumberProperty(),
			"llm_summary":     types.NewTextProperty(),
			"indexed_at":      types.NewDateProperty(),
		},
	}
}

func buildInteractionMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":         types.NewKeywordProperty(),
			"article_id": types.NewKeywordProperty(),
			"event_type": types.NewKeywordProperty(),
			"weight":     types.NewDoubleNumberProperty(),
			"ts":         types.NewDateProperty(),
			"latitude":   types.NewDoubleNumberProperty(),
			"longitude":  types.NewDoubleNumberProperty(),
		},
	}
}

func textPropertyWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
