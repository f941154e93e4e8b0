package domain

import "time"

// EventType classifies a user interaction with an article.
type EventType string

const (
	EventView  EventType = "view"
	EventClick EventType = "click"
	EventShare EventType = "share"
)

// EventWeights are the fixed popularity weights per event type.
var EventWeights = map[EventType]float64{
	EventView:  1.0,
	EventClick: 1.5,
	EventShare: 2.5,
}

// Interaction is a single append-only engagement event. Coordinates are
// inherited from the article at creation time, not from the actor.
type Interaction struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	EventType EventType `json:"event_type"`
	Weight    float64   `json:"weight"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
