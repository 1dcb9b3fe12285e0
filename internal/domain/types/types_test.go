package types_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/model"
	types "github.com/okian/sentiboard/internal/domain/types"
)

func TestNewSummaryResponse(t *testing.T) {
	Convey("Given a summary with no neutral tweets", t, func() {
		records := []model.AnalyzedTweet{
			{Tweet: model.Tweet{Text: "great", Likes: 3}, Label: model.Positive},
			{Tweet: model.Tweet{Text: "best", Likes: 9}, Label: model.Positive},
			{Tweet: model.Tweet{Text: "awful", Likes: 1}, Label: model.Negative},
		}
		s, err := aggregate.Summarize(records)
		So(err, ShouldBeNil)
		at := time.Date(2024, 9, 20, 8, 5, 3, 0, time.UTC)

		resp := types.NewSummaryResponse("01J8", "iPhone 15", "generator", s, at)

		Convey("Then the envelope is filled", func() {
			So(resp.Success, ShouldBeTrue)
			So(resp.AnalysisID, ShouldEqual, "01J8")
			So(resp.SearchTerm, ShouldEqual, "iPhone 15")
			So(resp.Source, ShouldEqual, "generator")
			So(resp.TotalTweets, ShouldEqual, 3)
			So(resp.Timestamp, ShouldEqual, "2024-09-20 08:05:03")
		})

		Convey("And every label is present", func() {
			So(resp.SentimentCounts, ShouldResemble, map[string]int{"positive": 2, "negative": 1, "neutral": 0})
			So(resp.SentimentPercentages["positive"], ShouldEqual, 66.7)
			So(resp.SentimentPercentages["negative"], ShouldEqual, 33.3)
			So(resp.SentimentPercentages["neutral"], ShouldEqual, 0.0)
		})

		Convey("And samples are ordered by likes with the placeholder for empty labels", func() {
			So(resp.SampleTweets["positive"], ShouldResemble, []string{"best", "great"})
			So(resp.SampleTweets["negative"], ShouldResemble, []string{"awful"})
			So(resp.SampleTweets["neutral"], ShouldResemble, []string{types.NoTweetsPlaceholder})
		})
	})
}

func TestNewTimelineResponse(t *testing.T) {
	Convey("Given a two-bucket series", t, func() {
		start := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)
		series := aggregate.Series{
			Width: time.Hour,
			Buckets: []aggregate.Bucket{
				{Start: start, Counts: map[model.Label]int{model.Positive: 2, model.Negative: 0, model.Neutral: 1}},
				{Start: start.Add(2 * time.Hour), Counts: map[model.Label]int{model.Positive: 0, model.Negative: 4, model.Neutral: 0}},
			},
		}

		resp := types.NewTimelineResponse(series)

		Convey("Then the arrays are parallel and labelled MM-DD HH:MM", func() {
			So(resp.Timestamps, ShouldResemble, []string{"03-07 09:00", "03-07 11:00"})
			So(resp.Positive, ShouldResemble, []int{2, 0})
			So(resp.Negative, ShouldResemble, []int{0, 4})
			So(resp.Neutral, ShouldResemble, []int{1, 0})
		})
	})

	Convey("Given an empty series", t, func() {
		resp := types.NewTimelineResponse(aggregate.Series{})

		Convey("Then the arrays are empty rather than null", func() {
			So(resp.Timestamps, ShouldNotBeNil)
			So(resp.Timestamps, ShouldBeEmpty)
			So(resp.Positive, ShouldBeEmpty)
		})
	})
}
