package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/okian/sentiboard/pkg/logger"
)

// SetupLogging sends logs to w, at debug level when verbose and warn
// otherwise so the report stays readable.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithOutput(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevel(slog.LevelDebug)
	} else {
		logger.SetLevel(slog.LevelWarn)
	}
	return nil
}

// ShowHelp prints usage information for the analyze tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `sentiboard analyze
==================

Classifies a batch of tweets offline and prints the sentiment breakdown.

Usage:
  go run ./cmd/analyze [options]

Options:
  -term string
        Search term (default "iPhone 15")
  -n int
        Number of tweets to analyze (default 1000 synthetic, whole dataset for -csv)
  -csv string
        CSV dataset of real tweets; synthetic tweets are used when it is missing
  -lexicon string
        YAML lexicon merged over the built-in one
  -seed int
        Generator seed for reproducible synthetic batches (default: time-seeded)
  -bucket duration
        Timeline bucket width (default 1h)
  -json
        Print the summary and timeline as JSON
  -verbose
        Enable debug logging on stderr
  -help
        Show this help message

Examples:
  # Synthetic batch for a custom term
  go run ./cmd/analyze -term "Pixel 9" -n 500 -seed 42

  # Airline dataset bucketed by half hour
  go run ./cmd/analyze -csv Tweets.csv -term delay -bucket 30m
`)
}
