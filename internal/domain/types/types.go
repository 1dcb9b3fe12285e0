// Package types contains the wire shapes shared by the HTTP API and the CLI.
package types

import (
	"time"

	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/model"
)

// Presentation constants.
const (
	// NoTweetsPlaceholder stands in for the samples of a label with no tweets.
	NoTweetsPlaceholder = "No tweets found"
	// TimestampLayout formats the analysis completion time.
	TimestampLayout = "2006-01-02 15:04:05"
	// BucketLabelLayout formats timeline bucket starts.
	BucketLabelLayout = "01-02 15:04"
)

// AnalyzeRequest is the body of POST /analyze. Every field is optional.
type AnalyzeRequest struct {
	SearchTerm string `json:"search_term,omitempty" jsonschema:"description=Term the tweets are about; defaults to the configured term"`
	Count      int    `json:"count,omitempty" jsonschema:"minimum=0,description=Number of tweets to analyze; 0 selects the default"`
	Source     string `json:"source,omitempty" jsonschema:"enum=generator,enum=csv,description=Where tweets come from"`
}

// SummaryResponse is the label breakdown returned by POST /analyze.
type SummaryResponse struct {
	Success              bool                `json:"success" jsonschema:"required"`
	AnalysisID           string              `json:"analysis_id" jsonschema:"required"`
	SearchTerm           string              `json:"search_term" jsonschema:"required"`
	Source               string              `json:"source" jsonschema:"required"`
	TotalTweets          int                 `json:"total_tweets" jsonschema:"required,minimum=1"`
	SentimentCounts      map[string]int      `json:"sentiment_counts" jsonschema:"required"`
	SentimentPercentages map[string]float64  `json:"sentiment_percentages" jsonschema:"required"`
	SampleTweets         map[string][]string `json:"sample_tweets" jsonschema:"required"`
	Timestamp            string              `json:"timestamp" jsonschema:"required,description=Completion time as YYYY-MM-DD HH:MM:SS"`
}

// TimelineResponse holds parallel per-bucket arrays for GET /get_timeline_data.
type TimelineResponse struct {
	Timestamps []string `json:"timestamps" jsonschema:"required,description=Bucket starts as MM-DD HH:MM"`
	Positive   []int    `json:"positive" jsonschema:"required"`
	Negative   []int    `json:"negative" jsonschema:"required"`
	Neutral    []int    `json:"neutral" jsonschema:"required"`
}

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// NewSummaryResponse renders a summary. Every label is present in every map
// and labels without tweets carry NoTweetsPlaceholder as their only sample.
func NewSummaryResponse(id, term, source string, s aggregate.Summary, at time.Time) SummaryResponse {
	resp := SummaryResponse{
		Success:              true,
		AnalysisID:           id,
		SearchTerm:           term,
		Source:               source,
		TotalTweets:          s.Total,
		SentimentCounts:      make(map[string]int, len(model.Labels)),
		SentimentPercentages: make(map[string]float64, len(model.Labels)),
		SampleTweets:         make(map[string][]string, len(model.Labels)),
		Timestamp:            at.Format(TimestampLayout),
	}
	for _, l := range model.Labels {
		name := string(l)
		resp.SentimentCounts[name] = s.Counts[l]
		resp.SentimentPercentages[name] = s.Percentages[l]
		samples := make([]string, 0, len(s.Top[l]))
		for _, r := range s.Top[l] {
			samples = append(samples, r.Text)
		}
		if len(samples) == 0 {
			samples = append(samples, NoTweetsPlaceholder)
		}
		resp.SampleTweets[name] = samples
	}
	return resp
}

// NewTimelineResponse flattens a series into parallel arrays.
func NewTimelineResponse(series aggregate.Series) TimelineResponse {
	n := len(series.Buckets)
	resp := TimelineResponse{
		Timestamps: make([]string, n),
		Positive:   make([]int, n),
		Negative:   make([]int, n),
		Neutral:    make([]int, n),
	}
	for i, b := range series.Buckets {
		resp.Timestamps[i] = b.Start.Format(BucketLabelLayout)
		resp.Positive[i] = b.Counts[model.Positive]
		resp.Negative[i] = b.Counts[model.Negative]
		resp.Neutral[i] = b.Counts[model.Neutral]
	}
	return resp
}
