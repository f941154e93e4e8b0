package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ognjenm/news-pulse/internal/domain"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"election", "results"}, Tokenize("  Election   RESULTS "))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize(""))
}

func TestSearchScore(t *testing.T) {
	tokens := []string{"election"}

	inTitle := domain.Article{Title: "Election Day Coverage", RelevanceScore: 0.8}
	inDescription := domain.Article{Title: "Morning Brief", Description: "The election enters its final week", RelevanceScore: 0.8}
	noMatch := domain.Article{Title: "Weather Update", Description: "Sunny all week", RelevanceScore: 0.8}

	assert.InDelta(t, 2+0.4, SearchScore(inTitle, tokens), 1e-9)
	assert.InDelta(t, 1+0.4, SearchScore(inDescription, tokens), 1e-9)
	assert.InDelta(t, 0.4, SearchScore(noMatch, tokens), 1e-9)
}

func TestSearch_RanksTitleMatchesFirst(t *testing.T) {
	articles := []domain.Article{
		{ID: "desc", Description: "election coverage"},
		{ID: "title", Title: "Election special"},
		{ID: "none", Title: "Sports"},
	}

	got := Search(articles, "election", 2)

	assert.Len(t, got, 2)
	assert.Equal(t, "title", got[0].Article.ID)
	assert.Equal(t, "desc", got[1].Article.ID)
}

func TestSearch_EmptyQueryYieldsNoCandidates(t *testing.T) {
	articles := []domain.Article{{ID: "a", Title: "Anything"}}

	assert.Nil(t, Search(articles, "   ", 5))
}
