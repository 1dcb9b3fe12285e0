package scoring

import "github.com/okian/sentiboard/pkg/logger"

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithScorer replaces the default lexicon scorer.
func WithScorer(s Scorer) Option {
	return func(c *Classifier) {
		if s != nil {
			c.scorer = s
		}
	}
}

// WithLexicon scores with lex instead of the embedded default.
func WithLexicon(lex *Lexicon) Option {
	return func(c *Classifier) {
		if lex != nil {
			c.scorer = NewLexiconScorer(lex)
		}
	}
}

// WithLogger sets the logger used to report absorbed scoring failures.
func WithLogger(l logger.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}
