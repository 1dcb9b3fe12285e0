package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/sentiboard/internal/report"
)

// defaultTimeout bounds one offline run.
const defaultTimeout = 2 * time.Minute

func main() {
	_ = godotenv.Load()

	var (
		term    = flag.String("term", "", "Search term (default \"iPhone 15\")")
		count   = flag.Int("n", 0, "Number of tweets to analyze (0 selects the default)")
		csvPath = flag.String("csv", os.Getenv("SENTIBOARD_DATASET_PATH"), "CSV dataset of real tweets")
		lexicon = flag.String("lexicon", os.Getenv("SENTIBOARD_LEXICON_PATH"), "YAML lexicon merged over the built-in one")
		seed    = flag.Int64("seed", 0, "Generator seed (0 seeds from the clock)")
		bucket  = flag.Duration("bucket", time.Hour, "Timeline bucket width")
		asJSON  = flag.Bool("json", false, "Print JSON instead of the text report")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		report.ShowHelp(os.Stdout)
		return
	}

	if err := report.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cfg := &report.Config{
		Term:        *term,
		Count:       *count,
		CSVPath:     *csvPath,
		LexiconPath: *lexicon,
		Seed:        *seed,
		Bucket:      *bucket,
		JSON:        *asJSON,
		Verbose:     *verbose,
	}

	if _, err := report.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Analysis failed: " + err.Error() + "\n")
		cancel()
		stop()
		os.Exit(1)
	}
}
