package domain

import (
	"strings"
	"time"
)

// Article is the read model served by every retrieval strategy. The record
// store owns it; the engine only reads it and attaches transient ranking
// annotations on response DTOs, never here.
type Article struct {
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
}

// GeoTagged reports whether both coordinates are set. Articles without a
// full coordinate pair never participate in nearby or trending ranking.
func (a *Article) GeoTagged() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// HasCategory checks category membership case-insensitively.
func (a *Article) HasCategory(name string) bool {
	for _, c := range a.Categories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
