package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/sentiboard/internal/domain/model"
	"github.com/okian/sentiboard/pkg/logger"
	"github.com/okian/sentiboard/pkg/metrics"
)

// CSV loader constants.
const (
	// CSVName identifies dataset batches in metrics and responses.
	CSVName = "csv"

	anonymousUser   = "anonymous"
	generatedStride = time.Minute
)

// Canonical column names after header normalization.
const (
	colID        = "id"
	colTweet     = "tweet"
	colTimestamp = "timestamp"
	colUser      = "user"
	colRetweets  = "retweets"
	colLikes     = "likes"
)

// columnAliases maps known dataset headers onto canonical column names.
var columnAliases = map[string]string{ //nolint:gochecknoglobals // read-only lookup table
	"text":              colTweet,
	"tweet":             colTweet,
	"created_at":        colTimestamp,
	"timestamp":         colTimestamp,
	"tweet_created":     colTimestamp,
	"airline_sentiment": "sentiment",
	"name":              colUser,
	"user_name":         colUser,
	"user":              colUser,
	"retweet_count":     colRetweets,
	"retweets":          colRetweets,
	"favorite_count":    colLikes,
	"like_count":        colLikes,
	"likes":             colLikes,
	"tweet_id":          colID,
	"id":                colID,
}

// timestampLayouts are tried in order when parsing a timestamp cell.
var timestampLayouts = []string{ //nolint:gochecknoglobals // read-only lookup table
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RubyDate,
	"2006-01-02 15:04",
	"2006-01-02",
}

// Report describes what a load had to repair or drop.
type Report struct {
	Rows       int // data rows read, excluding the header
	Loaded     int
	Rejected   int // rows without text
	Duplicates int
	Defaulted  int // rows with at least one defaulted field
}

// CSVLoader reads tweets from a CSV file.
type CSVLoader struct {
	path     string
	clock    clockwork.Clock
	location *time.Location
	logger   logger.Logger
}

// CSVOption configures a CSVLoader.
type CSVOption func(*CSVLoader)

// WithCSVClock sets the clock used to backfill missing timestamps.
func WithCSVClock(c clockwork.Clock) CSVOption {
	return func(l *CSVLoader) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLocation sets the zone for timestamps that carry no offset. Defaults to UTC.
func WithLocation(loc *time.Location) CSVOption {
	return func(l *CSVLoader) {
		if loc != nil {
			l.location = loc
		}
	}
}

// WithCSVLogger attaches a logger for per-row diagnostics.
func WithCSVLogger(lg logger.Logger) CSVOption {
	return func(l *CSVLoader) { l.logger = lg }
}

// NewCSVLoader creates a loader for the file at path.
func NewCSVLoader(path string, opts ...CSVOption) *CSVLoader {
	l := &CSVLoader{
		path:     path,
		clock:    clockwork.NewRealClock(),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements the service's source contract.
func (l *CSVLoader) Name() string { return CSVName }

// Path returns the dataset location.
func (l *CSVLoader) Path() string { return l.path }

// Fetch loads the dataset and keeps the rows whose text contains term
// (case-insensitive; empty term keeps all). A positive n caps the result.
func (l *CSVLoader) Fetch(ctx context.Context, term string, n int) ([]model.Tweet, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	tweets, _, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	tweets = FilterByTerm(tweets, term)
	if n > 0 && len(tweets) > n {
		tweets = tweets[:n]
	}
	return tweets, nil
}

// Load reads the whole dataset.
func (l *CSVLoader) Load(ctx context.Context) ([]model.Tweet, Report, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Report{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, l.path)
		}
		return nil, Report{}, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	tweets, report, err := l.Decode(ctx, f)
	if err != nil {
		return nil, report, err
	}
	if l.logger != nil {
		l.logger.Info(ctx, "dataset loaded",
			logger.String("path", l.path),
			logger.Int("rows", report.Rows),
			logger.Int("loaded", report.Loaded),
			logger.Int("rejected", report.Rejected),
			logger.Int("duplicates", report.Duplicates),
			logger.Int("defaulted", report.Defaulted),
		)
	}
	return tweets, report, nil
}

// Decode parses CSV data. Missing timestamps are backfilled one minute apart
// ending at the clock's now, missing users become "anonymous" and invalid or
// negative counters become 0. Rows without text and repeated ids are dropped.
func (l *CSVLoader) Decode(ctx context.Context, r io.Reader) ([]model.Tweet, Report, error) {
	var report Report

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, report, ErrMissingTextColumn
		}
		return nil, report, fmt.Errorf("read header: %w", err)
	}
	cols := normalizeHeader(header)
	if _, ok := cols[colTweet]; !ok {
		return nil, report, ErrMissingTextColumn
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, report, fmt.Errorf("read rows: %w", err)
	}
	report.Rows = len(rows)

	now := l.clock.Now().In(l.location)
	seen := make(map[string]struct{}, len(rows))
	tweets := make([]model.Tweet, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		t, defaulted, err := l.parseRow(cols, row)
		if err != nil {
			report.Rejected++
			metrics.RecordMalformedRecord("rejected")
			l.debug(ctx, "row rejected", i+2, err)
			continue
		}
		if t.ID != "" {
			if _, dup := seen[t.ID]; dup {
				report.Duplicates++
				continue
			}
			seen[t.ID] = struct{}{}
		}
		if t.Timestamp.IsZero() {
			// pandas-style date_range ending at now over every data row
			t.Timestamp = now.Add(-time.Duration(len(rows)-1-i) * generatedStride)
			defaulted = true
		}
		if defaulted {
			report.Defaulted++
			metrics.RecordMalformedRecord("defaulted")
		}
		tweets = append(tweets, t)
	}
	report.Loaded = len(tweets)
	return tweets, report, nil
}

func (l *CSVLoader) parseRow(cols map[string]int, row []string) (model.Tweet, bool, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	t := model.Tweet{
		ID:   cell(colID),
		Text: cell(colTweet),
		User: cell(colUser),
	}
	if t.Text == "" {
		return model.Tweet{}, false, fmt.Errorf("%w: empty text", ErrMalformedRecord)
	}

	defaulted := false
	if t.User == "" {
		t.User = anonymousUser
		defaulted = true
	}

	var ok bool
	if raw := cell(colTimestamp); raw != "" {
		if t.Timestamp, ok = parseTimestamp(raw, l.location); !ok {
			defaulted = true
		}
	}
	if t.Retweets, ok = parseCounter(cell(colRetweets)); !ok {
		defaulted = true
	}
	if t.Likes, ok = parseCounter(cell(colLikes)); !ok {
		defaulted = true
	}
	return t, defaulted, nil
}

func (l *CSVLoader) debug(ctx context.Context, msg string, line int, err error) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(ctx, msg, logger.String("path", l.path), logger.Int("line", line), logger.Error(err))
}

// FilterByTerm keeps tweets whose text contains term, ignoring case.
func FilterByTerm(tweets []model.Tweet, term string) []model.Tweet {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return tweets
	}
	out := make([]model.Tweet, 0, len(tweets))
	for _, t := range tweets {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out
}

// normalizeHeader maps canonical column names to their index. The first
// column claiming a canonical name wins.
func normalizeHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		if _, taken := cols[key]; !taken {
			cols[key] = i
		}
	}
	return cols
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseCounter accepts integers and integral floats ("3.0"). An empty cell is
// a valid zero; anything else unparseable or negative reports false.
func parseCounter(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
