package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const summaryMaxLen = 280

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// LocalSummarizer is the no-network fallback used when no model endpoint is
// configured.
type LocalSummarizer struct{}

func (LocalSummarizer) Summarize(_ context.Context, title, description string) (string, error) {
	return FallbackSummary(title, description), nil
}

// FallbackSummary takes the first two sentences of
// "Title: …. Description: …" truncated to 280 characters.
func FallbackSummary(title, description string) string {
	text := fmt.Sprintf("Title: %s. Description: %s", title, description)

	boundaries := sentenceBoundary.FindAllStringIndex(text, -1)
	if len(boundaries) >= 2 {
		text = text[:boundaries[1][0]+1]
	}

	if len(text) > summaryMaxLen {
		text = text[:summaryMaxLen]
	}
	return strings.TrimSpace(text)
}
