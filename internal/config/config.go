// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultSearchTerm is used when a request carries no search term.
	DefaultSearchTerm string `koanf:"default_search_term"`

	// SampleSize is the number of synthetic tweets generated per analysis
	// when the request does not ask for a specific count.
	SampleSize int `koanf:"sample_size"`

	// MaxSampleSize caps the count a request may ask for.
	MaxSampleSize int `koanf:"max_sample_size"`

	// HistorySize bounds the number of analyses kept in memory.
	HistorySize int `koanf:"history_size"`

	// DatasetPath points at a CSV of real tweets. Empty disables the csv source.
	DatasetPath string `koanf:"dataset_path"`

	// LexiconPath optionally points at a YAML lexicon merged over the embedded one.
	LexiconPath string `koanf:"lexicon_path"`

	// RateLimitRPS and RateLimitBurst shape the POST /analyze token bucket.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// GeneratorSeed seeds the synthetic generator. Zero seeds from the clock.
	GeneratorSeed int64 `koanf:"generator_seed"`

	// SentimentWeights maps label names to the generator's sampling weights.
	SentimentWeights map[string]float64 `koanf:"sentiment_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":5000",
		DefaultSearchTerm: "iPhone 15",
		SampleSize:        1000,
		MaxSampleSize:     10_000,
		HistorySize:       8,
		RateLimitRPS:      5,
		RateLimitBurst:    10,
		SentimentWeights: map[string]float64{
			"positive": 0.58,
			"negative": 0.15,
			"neutral":  0.27,
		},
	}
}

// Validate reports the first inconsistent setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxSampleSize < 1 {
		return fmt.Errorf("%w: max_sample_size must be positive", ErrInvalidConfig)
	}
	if c.SampleSize < 1 || c.SampleSize > c.MaxSampleSize {
		return fmt.Errorf("%w: sample_size must be between 1 and %d", ErrInvalidConfig, c.MaxSampleSize)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("%w: history_size must be positive", ErrInvalidConfig)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidConfig)
	}
	var sum float64
	for label, w := range c.SentimentWeights {
		if w < 0 {
			return fmt.Errorf("%w: weight for %q is negative", ErrInvalidConfig, label)
		}
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("%w: sentiment weights must sum to a positive value", ErrInvalidConfig)
	}
	return nil
}
