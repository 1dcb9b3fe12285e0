package scoring

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultLexiconYAML is the built-in lexicon shipped with the binary.
//
//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// lexiconFile mirrors the YAML layout of a lexicon file.
type lexiconFile struct {
	Words        map[string]float64 `yaml:"words"`
	Phrases      map[string]float64 `yaml:"phrases"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
}

// Lexicon holds polarity weights for words and phrases plus the modifier
// vocabulary used while scoring.
type Lexicon struct {
	entries      map[string]float64 // space-joined lowercase tokens -> polarity
	intensifiers map[string]float64
	negations    map[string]struct{}
	maxPhrase    int // longest entry, in tokens
}

// NewLexicon returns an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		entries:      make(map[string]float64),
		intensifiers: make(map[string]float64),
		negations:    make(map[string]struct{}),
		maxPhrase:    1,
	}
}

// DefaultLexicon parses the embedded lexicon.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexiconYAML)
}

// LoadLexicon reads a YAML lexicon file from disk.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	lex, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// ParseLexicon decodes a YAML lexicon document.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	lex := NewLexicon()
	for w, p := range f.Words {
		if err := lex.Add(w, p); err != nil {
			return nil, err
		}
	}
	for phrase, p := range f.Phrases {
		if err := lex.Add(phrase, p); err != nil {
			return nil, err
		}
	}
	for w, m := range f.Intensifiers {
		if m <= 0 {
			return nil, fmt.Errorf("%w: intensifier %q must be positive", ErrInvalidLexicon, w)
		}
		lex.intensifiers[strings.ToLower(strings.TrimSpace(w))] = m
	}
	for _, w := range f.Negations {
		lex.negations[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return lex, nil
}

// Add registers a word or multi-word phrase with the given polarity.
func (l *Lexicon) Add(term string, polarity float64) error {
	tokens := strings.Fields(strings.ToLower(term))
	if len(tokens) == 0 {
		return fmt.Errorf("%w: empty term", ErrInvalidLexicon)
	}
	if polarity < -1 || polarity > 1 {
		return fmt.Errorf("%w: polarity of %q out of range", ErrInvalidLexicon, term)
	}
	l.entries[strings.Join(tokens, " ")] = polarity
	if len(tokens) > l.maxPhrase {
		l.maxPhrase = len(tokens)
	}
	return nil
}

// Merge copies every entry of other into l, overriding existing ones.
func (l *Lexicon) Merge(other *Lexicon) {
	if other == nil {
		return
	}
	for k, v := range other.entries {
		l.entries[k] = v
	}
	for k, v := range other.intensifiers {
		l.intensifiers[k] = v
	}
	for k := range other.negations {
		l.negations[k] = struct{}{}
	}
	if other.maxPhrase > l.maxPhrase {
		l.maxPhrase = other.maxPhrase
	}
}

// Len returns the number of scored words and phrases.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Polarity returns the weight of a term and whether it is known.
func (l *Lexicon) Polarity(term string) (float64, bool) {
	p, ok := l.entries[strings.ToLower(term)]
	return p, ok
}
