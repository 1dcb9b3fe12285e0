package service

import (
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/okian/sentiboard/internal/adapters/repository"
	"github.com/okian/sentiboard/internal/adapters/source"
	"github.com/okian/sentiboard/internal/domain/model"
	"github.com/okian/sentiboard/internal/domain/scoring"
	"github.com/okian/sentiboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for timestamps, ids and latency.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithClassifier injects a ready classifier instead of the default lexicon one.
func WithClassifier(c *scoring.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithLexiconPath merges a YAML lexicon file over the embedded default.
func WithLexiconPath(path string) Option {
	return func(s *Service) { s.lexiconPath = strings.TrimSpace(path) }
}

// WithSource registers a tweet source under its name, replacing any source
// of the same name.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.sources[src.Name()] = src
		}
	}
}

// WithDefaultSource selects the source used when a request names none.
func WithDefaultSource(name string) Option {
	return func(s *Service) {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			s.defaultSource = name
		}
	}
}

// WithDatasetPath enables the csv source over the given file.
func WithDatasetPath(path string) Option {
	return func(s *Service) { s.datasetPath = strings.TrimSpace(path) }
}

// WithGeneratorSeed makes synthetic batches reproducible. Zero seeds from the clock.
func WithGeneratorSeed(seed int64) Option {
	return func(s *Service) {
		s.generatorOpts = append(s.generatorOpts, source.WithSeed(seed))
	}
}

// WithSentimentWeights sets the synthetic label mix from label names.
// Unknown names are ignored.
func WithSentimentWeights(weights map[string]float64) Option {
	return func(s *Service) {
		w := make(map[model.Label]float64, len(weights))
		for name, v := range weights {
			if l := model.Label(strings.ToLower(name)); l.Valid() {
				w[l] = v
			}
		}
		if len(w) > 0 {
			s.generatorOpts = append(s.generatorOpts, source.WithWeights(w))
		}
	}
}

// WithDefaultSearchTerm sets the term used when a request carries none.
func WithDefaultSearchTerm(term string) Option {
	return func(s *Service) {
		if term = strings.TrimSpace(term); term != "" {
			s.defaultTerm = term
		}
	}
}

// WithSampleSize sets the default synthetic batch size.
func WithSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithMaxSampleSize caps the batch size a request may ask for.
func WithMaxSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSampleSize = n
		}
	}
}

// WithHistorySize bounds the number of analyses kept in memory.
func WithHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithHistory injects the analysis store.
func WithHistory(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.history = store
		}
	}
}
