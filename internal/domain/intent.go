package domain

// Intent is the coarse retrieval strategy a free-text query resolves to.
type Intent string

const (
	IntentCategory Intent = "category"
	IntentSource   Intent = "source"
	IntentScore    Intent = "score"
	IntentSearch   Intent = "search"
	IntentNearby   Intent = "nearby"
)

// ParseIntent maps a raw string onto a known Intent, defaulting to search
// for anything missing or unrecognized.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentCategory, IntentSource, IntentScore, IntentSearch, IntentNearby:
		return Intent(s)
	default:
		return IntentSearch
	}
}

// ParsedIntent is the structured form of a free-text query. It is produced
// per request and never stored.
type ParsedIntent struct {
	Intent    Intent   `json:"intent"`
	Entities  []string `json:"entities"`
	Locations []string `json:"locations"`
	Keywords  []string `json:"keywords"`
}
