package news

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/ognjenm/news-pulse/internal/domain"
)

// defaultScoreThreshold applies when a score query carries no parseable
// number. Kept at the original calibration.
const defaultScoreThreshold = 0.7

// Query resolves a free-text query end to end: analyze, derive the strategy
// value, dispatch. Analysis failures fall back to the heuristic parser, so
// a query always resolves.
func (s *Service) Query(ctx context.Context, query string, lat, lon *float64, limit int) (*Result, error) {
	parsed, err := s.analyzer.AnalyzeQuery(ctx, query)
	if err != nil {
		slog.Warn("query analysis failed, using heuristic parser", "error", err)
		parsed, _ = s.fallback.AnalyzeQuery(ctx, query)
	}

	value := s.deriveValue(parsed, query)

	slog.Info("query resolved",
		"intent", parsed.Intent,
		"value", value,
		"entities", len(parsed.Entities),
		"keywords", len(parsed.Keywords))

	return s.Resolve(ctx, parsed.Intent, value, lat, lon, limit)
}

// Resolve dispatches an already-classified query to its retrieval strategy.
// Unknown intents and nearby queries without coordinates degrade to search;
// resolution itself never fails, only the store can.
func (s *Service) Resolve(ctx context.Context, in domain.Intent, value string, lat, lon *float64, limit int) (*Result, error) {
	switch in {
	case domain.IntentCategory:
		articles, err := s.ByCategory(ctx, value, limit)
		if err != nil {
			return nil, err
		}
		return &Result{Intent: in, Value: value, Articles: articles}, nil

	case domain.IntentSource:
		articles, err := s.BySource(ctx, value, limit)
		if err != nil {
			return nil, err
		}
		return &Result{Intent: in, Value: value, Articles: articles}, nil

	case domain.IntentScore:
		threshold := parseThreshold(value)
		articles, err := s.ByScore(ctx, threshold, limit)
		if err != nil {
			return nil, err
		}
		return &Result{Intent: in, Value: strconv.FormatFloat(threshold, 'f', -1, 64), Articles: articles}, nil

	case domain.IntentNearby:
		if lat == nil || lon == nil {
			return s.searchResult(ctx, value, limit)
		}
		articles, err := s.Nearby(ctx, *lat, *lon, 0, limit)
		if err != nil {
			return nil, err
		}
		return &Result{Intent: in, Value: value, Articles: articles}, nil

	default:
		return s.searchResult(ctx, value, limit)
	}
}

func (s *Service) searchResult(ctx context.Context, value string, limit int) (*Result, error) {
	articles, err := s.Search(ctx, value, limit)
	if err != nil {
		return nil, err
	}
	return &Result{Intent: domain.IntentSearch, Value: value, Articles: articles}, nil
}

// deriveValue extracts the strategy value from the parsed query: the first
// known category keyword, the first entity, or the first numeric keyword,
// depending on intent. Anything missing falls back to the raw query text.
func (s *Service) deriveValue(parsed domain.ParsedIntent, query string) string {
	switch parsed.Intent {
	case domain.IntentCategory:
		for _, kw := range parsed.Keywords {
			if s.lexicon.IsCategory(kw) {
				return capitalize(kw)
			}
		}
	case domain.IntentSource:
		if len(parsed.Entities) > 0 {
			return parsed.Entities[0]
		}
	case domain.IntentScore:
		for _, kw := range parsed.Keywords {
			if _, err := strconv.ParseFloat(kw, 64); err == nil {
				return kw
			}
		}
	}
	return query
}

func parseThreshold(value string) float64 {
	threshold, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return defaultScoreThreshold
	}
	return threshold
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
