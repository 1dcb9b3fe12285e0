// Package scoring turns tweet text into a polarity score and sentiment label.
package scoring

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/okian/sentiboard/internal/domain/model"
	"github.com/okian/sentiboard/internal/domain/normalize"
	"github.com/okian/sentiboard/pkg/logger"
	"github.com/okian/sentiboard/pkg/metrics"
)

// Scoring constants.
const (
	negationFactor = -0.5
	negationWindow = 2 // tokens looked back for a negation
	minPolarity    = -1.0
	maxPolarity    = 1.0
)

// Scorer computes a polarity in [-1, 1] for already normalized text.
type Scorer interface {
	Polarity(text string) (float64, error)
}

// LexiconScorer implements Scorer by averaging lexicon weights of the words
// and phrases found in the text.
type LexiconScorer struct {
	lex *Lexicon
}

// NewLexiconScorer creates a scorer over lex.
func NewLexiconScorer(lex *Lexicon) *LexiconScorer {
	return &LexiconScorer{lex: lex}
}

// Polarity scores text. Text with no known terms scores 0.
func (s *LexiconScorer) Polarity(text string) (float64, error) {
	if s.lex == nil || s.lex.Len() == 0 {
		return 0, ErrEmptyLexicon
	}
	if !utf8.ValidString(text) {
		return 0, ErrInvalidUTF8
	}

	tokens := strings.Fields(strings.ToLower(text))
	var (
		sum   float64
		count int
	)
	for i := 0; i < len(tokens); {
		p, n := s.match(tokens, i)
		if n == 0 {
			i++
			continue
		}
		if i > 0 {
			if m, ok := s.lex.intensifiers[tokens[i-1]]; ok {
				p *= m
			}
		}
		if s.negated(tokens, i) {
			p *= negationFactor
		}
		sum += clamp(p)
		count++
		i += n
	}
	if count == 0 {
		return 0, nil
	}
	return clamp(sum / float64(count)), nil
}

// match finds the longest lexicon entry starting at tokens[i] and returns its
// polarity and length in tokens, or a zero length when nothing matches.
func (s *LexiconScorer) match(tokens []string, i int) (float64, int) {
	for n := min(s.lex.maxPhrase, len(tokens)-i); n > 0; n-- {
		if p, ok := s.lex.entries[strings.Join(tokens[i:i+n], " ")]; ok {
			return p, n
		}
	}
	return 0, 0
}

func (s *LexiconScorer) negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if _, ok := s.lex.negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	return math.Max(minPolarity, math.Min(maxPolarity, v))
}

// Classifier normalizes, scores and labels tweet text.
type Classifier struct {
	scorer Scorer
	logger logger.Logger
}

// NewClassifier builds a classifier. Without WithScorer it scores with the
// embedded default lexicon.
func NewClassifier(opts ...Option) (*Classifier, error) {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	if c.scorer == nil {
		lex, err := DefaultLexicon()
		if err != nil {
			return nil, err
		}
		c.scorer = NewLexiconScorer(lex)
	}
	return c, nil
}

// Classify returns the label and polarity of raw. It never fails: text that
// cannot be scored is reported as neutral with a zero score.
func (c *Classifier) Classify(ctx context.Context, raw string) (model.Label, float64) {
	cleaned := normalize.Normalize(raw)
	if cleaned == "" {
		return model.Neutral, 0
	}
	score, err := c.scorer.Polarity(cleaned)
	if err != nil {
		metrics.RecordScoringFailure()
		if c.logger != nil {
			c.logger.Debug(ctx, "scoring failed; treating as neutral", logger.Error(err))
		}
		return model.Neutral, 0
	}
	score = clamp(score)
	return model.LabelFor(score), score
}

// Analyze classifies every tweet of a batch, preserving input order.
func (c *Classifier) Analyze(ctx context.Context, tweets []model.Tweet) []model.AnalyzedTweet {
	out := make([]model.AnalyzedTweet, len(tweets))
	for i, t := range tweets {
		label, score := c.Classify(ctx, t.Text)
		out[i] = model.AnalyzedTweet{Tweet: t, Label: label, Score: score}
		metrics.RecordTweetClassified(string(label))
	}
	return out
}
