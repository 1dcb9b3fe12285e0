package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/okian/sentiboard/internal/adapters/source"
	app "github.com/okian/sentiboard/internal/app"
	"github.com/okian/sentiboard/internal/domain/types"
	"github.com/okian/sentiboard/pkg/logger"
)

// Run executes one analysis and writes the report to out.
func Run(ctx context.Context, config *Config, out io.Writer) (*Stats, error) {
	clock := config.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := logger.Named("report")
	stats := &Stats{StartTime: clock.Now(), Source: source.GeneratorName}

	svc := app.New(
		app.WithLogger(log),
		app.WithClock(clock),
		app.WithDatasetPath(config.CSVPath),
		app.WithLexiconPath(config.LexiconPath),
		app.WithGeneratorSeed(config.Seed),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("service start failed: %w", err)
	}
	defer svc.Stop()

	if config.CSVPath != "" {
		stats.Source = source.CSVName
		if fi, err := os.Stat(config.CSVPath); err == nil {
			stats.DatasetSize = fi.Size()
		}
	}

	req := app.AnalyzeRequest{SearchTerm: config.Term, Count: config.Count, Source: stats.Source}
	a, err := svc.Analyze(ctx, req)
	if errors.Is(err, source.ErrDatasetNotFound) {
		log.Warn(ctx, "dataset not found; using synthetic tweets", logger.String("path", config.CSVPath))
		stats.Source = source.GeneratorName
		stats.FellBack = true
		req.Source = source.GeneratorName
		a, err = svc.Analyze(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	series, err := svc.Timeline(ctx, a.ID, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("timeline failed: %w", err)
	}
	stats.Duration = clock.Since(stats.StartTime)

	summary := types.NewSummaryResponse(a.ID, a.SearchTerm, a.Source, a.Summary, a.CreatedAt)
	timeline := types.NewTimelineResponse(series)

	if config.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Result{Summary: summary, Timeline: timeline, FellBack: stats.FellBack}); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
		return stats, nil
	}

	if err := writeText(out, a, series, stats, clock.Now()); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return stats, nil
}
