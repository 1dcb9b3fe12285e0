package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/sentiboard/internal/app"
	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/model"
	"github.com/okian/sentiboard/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2024, 9, 20, 12, 0, 0, 0, time.UTC)

// staticSource serves a fixed batch regardless of term and count.
type staticSource struct {
	name   string
	tweets []model.Tweet
	err    error
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Fetch(context.Context, string, int) ([]model.Tweet, error) {
	return s.tweets, s.err
}

func startedService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithClock(clockwork.NewFakeClockAt(fixedNow)),
		service.WithGeneratorSeed(42),
	}
	svc := service.New(append(base, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When analyzing before start", func() {
			_, err := svc.Analyze(context.Background(), service.AnalyzeRequest{})

			Convey("Then it is refused", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.Sources(), ShouldResemble, []string{"generator"})
			})

			Convey("And starting twice is harmless", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a dataset path", t, func() {
		svc := service.New(service.WithDatasetPath("/tmp/does-not-matter.csv"))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then the csv source is registered", func() {
			So(svc.Sources(), ShouldResemble, []string{"csv", "generator"})
		})
	})

	Convey("Given an unreadable lexicon path", t, func() {
		svc := service.New(service.WithLexiconPath("/no/such/lexicon.yaml"))

		Convey("Then start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})

	Convey("Given weights that cannot be sampled", t, func() {
		svc := service.New(service.WithSentimentWeights(map[string]float64{"positive": 0, "neutral": 0}))

		Convey("Then start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with default settings", t, func() {
		svc := startedService()
		defer svc.Stop()

		Convey("When analyzing without a term or count", func() {
			a, err := svc.Analyze(ctx, service.AnalyzeRequest{})
			So(err, ShouldBeNil)

			Convey("Then the default term and sample size are used", func() {
				So(a.SearchTerm, ShouldEqual, "iPhone 15")
				So(a.Source, ShouldEqual, "generator")
				So(a.Summary.Total, ShouldEqual, 1000)
				So(a.Len(), ShouldEqual, 1000)
				So(a.ID, ShouldHaveLength, 26)
				So(a.CreatedAt, ShouldEqual, fixedNow)
			})

			Convey("And the counts add up", func() {
				sum := 0
				for _, l := range model.Labels {
					sum += a.Summary.Counts[l]
				}
				So(sum, ShouldEqual, a.Summary.Total)
			})

			Convey("And every record's label matches its score", func() {
				for _, r := range a.Records {
					So(r.Label, ShouldEqual, model.LabelFor(r.Score))
				}
			})

			Convey("And it becomes the latest analysis", func() {
				latest, err := svc.Get(ctx, "")
				So(err, ShouldBeNil)
				So(latest.ID, ShouldEqual, a.ID)
				So(latest.Summary.Counts, ShouldResemble, a.Summary.Counts)
			})
		})

		Convey("When analyzing a custom term and count", func() {
			a, err := svc.Analyze(ctx, service.AnalyzeRequest{SearchTerm: "  Pixel 9 ", Count: 25})
			So(err, ShouldBeNil)

			Convey("Then both are honoured", func() {
				So(a.SearchTerm, ShouldEqual, "Pixel 9")
				So(a.Summary.Total, ShouldEqual, 25)
				So(a.Records[0].Text, ShouldContainSubstring, "Pixel 9")
			})
		})

		Convey("When two analyses run back to back", func() {
			first, _ := svc.Analyze(ctx, service.AnalyzeRequest{Count: 5})
			second, _ := svc.Analyze(ctx, service.AnalyzeRequest{Count: 5})

			Convey("Then their ids are distinct and increasing", func() {
				So(first.ID, ShouldNotEqual, second.ID)
				So(second.ID > first.ID, ShouldBeTrue)
			})
		})

		Convey("When the count is out of range", func() {
			_, errNeg := svc.Analyze(ctx, service.AnalyzeRequest{Count: -1})
			_, errBig := svc.Analyze(ctx, service.AnalyzeRequest{Count: 10_001})

			Convey("Then it is rejected", func() {
				So(errors.Is(errNeg, service.ErrInvalidCount), ShouldBeTrue)
				So(errors.Is(errBig, service.ErrInvalidCount), ShouldBeTrue)
			})
		})

		Convey("When the source is unknown", func() {
			_, err := svc.Analyze(ctx, service.AnalyzeRequest{Source: "twitter"})

			Convey("Then ErrUnknownSource is returned", func() {
				So(errors.Is(err, service.ErrUnknownSource), ShouldBeTrue)
			})
		})
	})

	Convey("Given a source that yields nothing", t, func() {
		svc := startedService(
			service.WithSource(staticSource{name: "empty"}),
			service.WithDefaultSource("empty"),
		)

		Convey("When analyzing", func() {
			_, err := svc.Analyze(ctx, service.AnalyzeRequest{})

			Convey("Then the empty batch is reported and nothing is stored", func() {
				So(errors.Is(err, aggregate.ErrEmptyBatch), ShouldBeTrue)
				_, terr := svc.Timeline(ctx, "", 0)
				So(errors.Is(terr, service.ErrNoData), ShouldBeTrue)
			})
		})
	})

	Convey("Given a source that fails", t, func() {
		boom := errors.New("boom")
		svc := startedService(service.WithSource(staticSource{name: "broken", err: boom}))

		Convey("Then the failure is wrapped", func() {
			_, err := svc.Analyze(ctx, service.AnalyzeRequest{Source: "Broken"})
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})

	Convey("Given the ten-tweet reference scenario", t, func() {
		texts := []string{
			"Loving the new phone, amazing camera",
			"Best purchase ever",
			"Incredible battery life",
			"Great screen",
			"Happy with it",
			"So good",
			"Way too expensive",
			"Disappointed with the battery",
			"Got it today",
			"Setting it up now",
		}
		tweets := make([]model.Tweet, len(texts))
		for i, text := range texts {
			tweets[i] = model.Tweet{Text: text, Timestamp: fixedNow, Likes: i}
		}
		svc := startedService(
			service.WithSource(staticSource{name: "fixture", tweets: tweets}),
			service.WithDefaultSource("fixture"),
		)

		Convey("Then the breakdown is 60/20/20", func() {
			a, err := svc.Analyze(ctx, service.AnalyzeRequest{})
			So(err, ShouldBeNil)
			So(a.Summary.Counts[model.Positive], ShouldEqual, 6)
			So(a.Summary.Counts[model.Negative], ShouldEqual, 2)
			So(a.Summary.Counts[model.Neutral], ShouldEqual, 2)
			So(a.Summary.Percentages[model.Positive], ShouldEqual, 60.0)
			So(a.Summary.Percentages[model.Negative], ShouldEqual, 20.0)
			So(a.Summary.Percentages[model.Neutral], ShouldEqual, 20.0)
		})
	})
}

func TestService_Timeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with no analyses", t, func() {
		svc := startedService()

		Convey("Then the timeline has no data", func() {
			_, err := svc.Timeline(ctx, "", 0)
			So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
		})
	})

	Convey("Given two stored analyses", t, func() {
		svc := startedService()
		first, err := svc.Analyze(ctx, service.AnalyzeRequest{Count: 12})
		So(err, ShouldBeNil)
		second, err := svc.Analyze(ctx, service.AnalyzeRequest{Count: 30})
		So(err, ShouldBeNil)

		Convey("When requesting the latest timeline", func() {
			series, err := svc.Timeline(ctx, "", 0)
			So(err, ShouldBeNil)

			Convey("Then it covers the latest batch in hourly buckets", func() {
				So(series.Width, ShouldEqual, time.Hour)
				// 30 tweets ten minutes apart starting on the hour span five hours
				So(len(series.Buckets), ShouldEqual, 5)
				total := 0
				for _, b := range series.Buckets {
					for _, l := range model.Labels {
						total += b.Counts[l]
					}
				}
				So(total, ShouldEqual, second.Summary.Total)
			})
		})

		Convey("When requesting an older analysis by id with a custom width", func() {
			series, err := svc.Timeline(ctx, first.ID, 30*time.Minute)
			So(err, ShouldBeNil)

			Convey("Then that batch is bucketed", func() {
				So(series.Width, ShouldEqual, 30*time.Minute)
				So(len(series.Buckets), ShouldEqual, 4)
			})
		})

		Convey("When requesting an unknown id", func() {
			_, err := svc.Timeline(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", 0)

			Convey("Then ErrAnalysisNotFound is returned", func() {
				So(errors.Is(err, service.ErrAnalysisNotFound), ShouldBeTrue)
			})
		})

		Convey("When requesting a negative width", func() {
			_, err := svc.Timeline(ctx, "", -time.Minute)

			Convey("Then the width is rejected", func() {
				So(errors.Is(err, aggregate.ErrInvalidBucketWidth), ShouldBeTrue)
			})
		})

		Convey("And stats describe the history", func() {
			stats := svc.GetStats()
			So(stats["analyses"], ShouldEqual, 2)
			So(stats["latestAnalysis"], ShouldEqual, second.ID)
			So(stats["latestTotal"], ShouldEqual, 30)
		})
	})
}

func TestService_HistoryBound(t *testing.T) {
	Convey("Given a history of two", t, func() {
		ctx := context.Background()
		svc := startedService(service.WithHistorySize(2))
		a, _ := svc.Analyze(ctx, service.AnalyzeRequest{Count: 3})
		_, _ = svc.Analyze(ctx, service.AnalyzeRequest{Count: 3})
		_, _ = svc.Analyze(ctx, service.AnalyzeRequest{Count: 3})

		Convey("Then the oldest analysis is evicted", func() {
			_, err := svc.Get(ctx, a.ID)
			So(errors.Is(err, service.ErrAnalysisNotFound), ShouldBeTrue)
			So(svc.GetStats()["analyses"], ShouldEqual, 2)
		})
	})
}
