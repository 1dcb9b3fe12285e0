// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"

	"github.com/okian/sentiboard/internal/adapters/repository"
	"github.com/okian/sentiboard/internal/adapters/source"
	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/model"
	"github.com/okian/sentiboard/internal/domain/scoring"
	"github.com/okian/sentiboard/pkg/logger"
	"github.com/okian/sentiboard/pkg/metrics"
)

// Service defaults.
const (
	defaultSearchTerm    = "iPhone 15"
	defaultSampleSize    = 1000
	defaultMaxSampleSize = 10_000
	defaultHistorySize   = 8
)

// Source produces the tweets of one analysis.
type Source interface {
	Name() string
	Fetch(ctx context.Context, term string, n int) ([]model.Tweet, error)
}

// AnalyzeRequest describes one analysis. Zero values select the defaults.
type AnalyzeRequest struct {
	SearchTerm string
	Count      int
	Source     string
}

// Analysis is a stored batch together with its label breakdown.
type Analysis struct {
	model.Batch
	Summary aggregate.Summary
}

// Service runs analyses and keeps a bounded history of them.
type Service struct {
	mu sync.RWMutex

	// Core components
	history    repository.Store
	classifier *scoring.Classifier
	sources    map[string]Source
	clock      clockwork.Clock

	// Configuration
	defaultSource string
	defaultTerm   string
	sampleSize    int
	maxSampleSize int
	historySize   int
	generatorOpts []source.GeneratorOption
	datasetPath   string
	lexiconPath   string

	// ID generation; monotonic entropy is not safe for concurrent use.
	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration. Start must be
// called before the service can analyze.
func New(opts ...Option) *Service {
	s := &Service{
		sources:       make(map[string]Source),
		clock:         clockwork.NewRealClock(),
		defaultSource: source.GeneratorName,
		defaultTerm:   defaultSearchTerm,
		sampleSize:    defaultSampleSize,
		maxSampleSize: defaultMaxSampleSize,
		historySize:   defaultHistorySize,
		entropy:       ulid.Monotonic(rand.Reader, 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sampleSize > s.maxSampleSize {
		s.sampleSize = s.maxSampleSize
	}
	return s
}

// Start builds every component that was not injected through options.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting sentiment service...")

	if s.classifier == nil {
		copts := []scoring.Option{scoring.WithLogger(s.logger.Named("scoring"))}
		if s.lexiconPath != "" {
			lex, err := scoring.DefaultLexicon()
			if err != nil {
				return fmt.Errorf("default lexicon: %w", err)
			}
			extra, err := scoring.LoadLexicon(s.lexiconPath)
			if err != nil {
				return fmt.Errorf("lexicon %s: %w", s.lexiconPath, err)
			}
			lex.Merge(extra)
			copts = append(copts, scoring.WithLexicon(lex))
		}
		c, err := scoring.NewClassifier(copts...)
		if err != nil {
			return fmt.Errorf("classifier: %w", err)
		}
		s.classifier = c
	}

	if _, ok := s.sources[source.GeneratorName]; !ok {
		gopts := append([]source.GeneratorOption{source.WithClock(s.clock)}, s.generatorOpts...)
		g, err := source.NewGenerator(gopts...)
		if err != nil {
			return fmt.Errorf("generator: %w", err)
		}
		s.sources[g.Name()] = g
	}

	if _, ok := s.sources[source.CSVName]; !ok && s.datasetPath != "" {
		s.sources[source.CSVName] = source.NewCSVLoader(s.datasetPath,
			source.WithCSVClock(s.clock),
			source.WithCSVLogger(s.logger.Named("csv")),
		)
	}

	if s.history == nil {
		s.history = repository.NewHistory(repository.WithCapacity(s.historySize))
	}

	s.started = true
	s.logger.Info(ctx, "sentiment service started",
		logger.Any("sources", s.sourceNames()),
		logger.Int("sampleSize", s.sampleSize),
		logger.Int("historySize", s.historySize),
	)
	return nil
}

// Stop marks the service as stopped. Stored analyses are kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "sentiment service stopped")
}

// Analyze fetches a batch, classifies it, summarizes it and stores it as the
// latest analysis.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (Analysis, error) {
	start := s.clock.Now()

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Analysis{}, ErrNotStarted
	}

	srcName := strings.ToLower(strings.TrimSpace(req.Source))
	if srcName == "" {
		srcName = s.defaultSource
	}
	src, ok := s.sources[srcName]
	if !ok {
		return Analysis{}, fmt.Errorf("%w: %q", ErrUnknownSource, req.Source)
	}

	// A blank term reads the whole dataset; only generated batches need a subject.
	term := strings.TrimSpace(req.SearchTerm)
	if term == "" && srcName != source.CSVName {
		term = s.defaultTerm
	}

	n, err := s.resolveCount(req.Count, srcName)
	if err != nil {
		return Analysis{}, err
	}

	tweets, err := src.Fetch(ctx, term, n)
	if err != nil {
		metrics.RecordAnalysis(srcName, "error")
		return Analysis{}, fmt.Errorf("fetch %s: %w", srcName, err)
	}

	records := s.classifier.Analyze(ctx, tweets)
	summary, err := aggregate.Summarize(records)
	if err != nil {
		metrics.RecordAnalysis(srcName, "empty")
		s.logger.Warn(ctx, "analysis produced no tweets",
			logger.String("term", term),
			logger.String("source", srcName),
		)
		return Analysis{}, err
	}

	batch := model.Batch{
		ID:         s.newID(),
		SearchTerm: term,
		Source:     srcName,
		CreatedAt:  s.clock.Now(),
		Records:    records,
	}
	if err := s.history.Put(ctx, batch); err != nil {
		return Analysis{}, fmt.Errorf("store analysis: %w", err)
	}

	took := s.clock.Since(start)
	metrics.RecordAnalysis(srcName, "ok")
	metrics.RecordAnalysisDuration(float64(took.Microseconds()) / 1000)
	metrics.UpdateLastBatch(summary.Total, percentagesByName(summary))

	s.logger.Info(ctx, "analysis complete",
		logger.String("id", batch.ID),
		logger.String("term", term),
		logger.String("source", srcName),
		logger.Int("total", summary.Total),
		logger.Float64("positive", summary.Percentages[model.Positive]),
		logger.Float64("neutral", summary.Percentages[model.Neutral]),
		logger.Float64("negative", summary.Percentages[model.Negative]),
		logger.Duration("took", took),
	)

	return Analysis{Batch: batch, Summary: summary}, nil
}

// Get returns a stored analysis. An empty id selects the latest one.
func (s *Service) Get(ctx context.Context, id string) (Analysis, error) {
	batch, err := s.lookup(ctx, id)
	if err != nil {
		return Analysis{}, err
	}
	summary, err := aggregate.Summarize(batch.Records)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{Batch: batch, Summary: summary}, nil
}

// Timeline buckets a stored analysis by time. An empty id selects the
// latest analysis and a zero width selects hourly buckets.
func (s *Service) Timeline(ctx context.Context, id string, width time.Duration) (aggregate.Series, error) {
	if width == 0 {
		width = aggregate.DefaultBucketWidth
	}
	batch, err := s.lookup(ctx, id)
	if err != nil {
		return aggregate.Series{}, err
	}
	return aggregate.Bucketize(batch.Records, width)
}

func (s *Service) lookup(ctx context.Context, id string) (model.Batch, error) {
	s.mu.RLock()
	history := s.history
	s.mu.RUnlock()
	if history == nil {
		return model.Batch{}, ErrNoData
	}

	if id == "" {
		batch, err := history.Latest(ctx)
		if errors.Is(err, repository.ErrEmpty) {
			return model.Batch{}, ErrNoData
		}
		return batch, err
	}

	batch, err := history.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Batch{}, fmt.Errorf("%w: %s", ErrAnalysisNotFound, id)
	}
	return batch, err
}

// resolveCount applies defaults and bounds to a requested batch size.
func (s *Service) resolveCount(requested int, srcName string) (int, error) {
	switch {
	case requested < 0 || requested > s.maxSampleSize:
		return 0, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidCount, requested, s.maxSampleSize)
	case requested > 0:
		return requested, nil
	case srcName == source.GeneratorName:
		return s.sampleSize, nil
	default:
		return s.maxSampleSize, nil
	}
}

func (s *Service) newID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String()
}

func (s *Service) sourceNames() []string {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources lists the names of the configured tweet sources.
func (s *Service) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceNames()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"sources":       s.sourceNames(),
		"defaultTerm":   s.defaultTerm,
		"sampleSize":    s.sampleSize,
		"maxSampleSize": s.maxSampleSize,
		"historySize":   s.historySize,
	}

	if s.history != nil {
		ctx := context.Background()
		count := s.history.Count(ctx)
		stats["analyses"] = count
		if latest, err := s.history.Latest(ctx); err == nil {
			stats["latestAnalysis"] = latest.ID
			stats["latestTerm"] = latest.SearchTerm
			stats["latestTotal"] = latest.Len()
		}
		metrics.UpdateHistorySize(count)
	}

	return stats
}

func percentagesByName(s aggregate.Summary) map[string]float64 {
	out := make(map[string]float64, len(s.Percentages))
	for label, pct := range s.Percentages {
		out[string(label)] = pct
	}
	return out
}
