package rank

import (
	"sort"
	"strings"

	"github.com/ognjenm/news-pulse/internal/domain"
)

// Scored pairs an article with the score that ranked it. The score is a
// transient annotation, never persisted.
type Scored struct {
	Article domain.Article
	Score   float64
}

// Tokenize lower-cases a query and splits it on whitespace, dropping empty
// tokens. An empty result means the caller must short-circuit: an empty
// query yields no search candidates.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// SearchScore computes the token-overlap relevance of an article for the
// given lower-cased tokens: +2 per token found in the title, else +1 if
// found in the description, plus half the article's stored relevance score.
func SearchScore(a domain.Article, tokens []string) float64 {
	title := strings.ToLower(a.Title)
	description := strings.ToLower(a.Description)

	var score float64
	for _, tok := range tokens {
		switch {
		case strings.Contains(title, tok):
			score += 2
		case strings.Contains(description, tok):
			score += 1
		}
	}

	return score + a.RelevanceScore*0.5
}

// Search ranks articles against a free-text query, best first, truncated to
// limit. A query with no tokens returns nil.
func Search(articles []domain.Article, query string, limit int) []Scored {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	scored := make([]Scored, 0, len(articles))
	for _, a := range articles {
		scored = append(scored, Scored{Article: a, Score: SearchScore(a, tokens)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
