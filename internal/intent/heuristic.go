// Package intent turns free-text queries into a structured retrieval intent.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/ognjenm/news-pulse/internal/domain"
)

// Analyzer classifies a query into a ParsedIntent. Implementations: the
// deterministic HeuristicParser below and the network-backed llm.Client.
type Analyzer interface {
	AnalyzeQuery(ctx context.Context, query string) (domain.ParsedIntent, error)
}

var (
	entityPattern   = regexp.MustCompile(`[A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)*`)
	keywordSplitter = regexp.MustCompile(`\W+`)
)

// HeuristicParser is the deterministic fallback used when no external model
// is configured or the model call fails. It is best-effort and never errors.
type HeuristicParser struct {
	lexicon *Lexicon
}

func NewHeuristicParser(lexicon *Lexicon) *HeuristicParser {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &HeuristicParser{lexicon: lexicon}
}

// AnalyzeQuery maps text onto an intent by keyword cues, then extracts
// entities (maximal capitalized-word runs), gazetteer locations and
// stop-word-filtered keywords. Empty text yields search with empty lists.
func (p *HeuristicParser) AnalyzeQuery(_ context.Context, query string) (domain.ParsedIntent, error) {
	lowered := strings.ToLower(query)

	parsed := domain.ParsedIntent{
		Intent:    classify(lowered),
		Entities:  []string{},
		Locations: []string{},
		Keywords:  []string{},
	}

	for _, entity := range entityPattern.FindAllString(query, -1) {
		parsed.Entities = append(parsed.Entities, entity)
		if p.lexicon.IsLocation(entity) {
			parsed.Locations = append(parsed.Locations, entity)
		}
	}

	for _, word := range keywordSplitter.Split(lowered, -1) {
		if word == "" || p.lexicon.IsStopWord(word) {
			continue
		}
		parsed.Keywords = append(parsed.Keywords, word)
	}

	return parsed, nil
}

func classify(lowered string) domain.Intent {
	switch {
	case strings.Contains(lowered, "near") || strings.Contains(lowered, "nearby") || strings.Contains(lowered, "around"):
		return domain.IntentNearby
	case strings.Contains(lowered, "top") || strings.Contains(lowered, "latest"):
		return domain.IntentCategory
	case strings.Contains(lowered, "from") && strings.Contains(lowered, "news"):
		return domain.IntentSource
	case strings.Contains(lowered, "score"):
		return domain.IntentScore
	default:
		return domain.IntentSearch
	}
}
