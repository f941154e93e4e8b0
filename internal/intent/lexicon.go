package intent

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon carries the fixed vocabularies the heuristic parser and the value
// derivation step rely on: the location gazetteer, the stop-word set and the
// known category names. It ships with compiled-in defaults and can be
// overridden from a YAML file.
type Lexicon struct {
	Locations  []string `yaml:"locations"`
	StopWords  []string `yaml:"stop_words"`
	Categories []string `yaml:"categories"`

	locationSet map[string]struct{}
	stopWordSet map[string]struct{}
	categorySet map[string]struct{}
}

// DefaultLexicon returns the built-in vocabularies.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		Locations: []string{
			"palo alto", "san francisco", "paris", "tokyo",
			"berlin", "london", "fresno", "new york times",
		},
		StopWords: []string{"the", "in", "from", "near", "me"},
		Categories: []string{
			"technology", "business", "world", "general",
			"local", "environment", "policy", "sustainability",
		},
	}
	lex.index()
	return lex
}

// LoadLexicon decodes a YAML lexicon. Empty sections fall back to the
// defaults so a file may override just one vocabulary.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.NewDecoder(r).Decode(&lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	defaults := DefaultLexicon()
	if len(lex.Locations) == 0 {
		lex.Locations = defaults.Locations
	}
	if len(lex.StopWords) == 0 {
		lex.StopWords = defaults.StopWords
	}
	if len(lex.Categories) == 0 {
		lex.Categories = defaults.Categories
	}

	lex.index()
	return &lex, nil
}

func (l *Lexicon) index() {
	l.locationSet = toSet(l.Locations)
	l.stopWordSet = toSet(l.StopWords)
	l.categorySet = toSet(l.Categories)
}

// IsLocation matches against the gazetteer, case-insensitively.
func (l *Lexicon) IsLocation(s string) bool {
	_, ok := l.locationSet[strings.ToLower(s)]
	return ok
}

// IsStopWord reports whether a lower-cased token is a stop-word.
func (l *Lexicon) IsStopWord(s string) bool {
	_, ok := l.stopWordSet[strings.ToLower(s)]
	return ok
}

// IsCategory reports whether a keyword names a known category.
func (l *Lexicon) IsCategory(s string) bool {
	_, ok := l.categorySet[strings.ToLower(s)]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
