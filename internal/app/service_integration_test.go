package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/sentiboard/internal/adapters/source"
	service "github.com/okian/sentiboard/internal/app"
	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/model"
)

func TestServiceIntegration_CSV(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over a dataset on disk", t, func() {
		var b strings.Builder
		b.WriteString("tweet_id,text,created_at,name,favorite_count\n")
		rows := []string{
			"1,Best phone I have ever owned,2024-05-01 10:05:00,ann,50",
			"2,Having issues with overheating. Not happy.,2024-05-01 10:40:00,bob,7",
			"3,Got the phone today,2024-05-01 11:15:00,,3",
			"4,Battery life is amazing,2024-05-01 11:20:00,cat,90",
			"5,,2024-05-01 11:30:00,dan,1",
			"1,Best phone I have ever owned,2024-05-01 10:05:00,ann,50",
			"6,Nothing about the subject here,2024-05-01 12:00:00,eve,4",
		}
		for _, r := range rows {
			b.WriteString(r + "\n")
		}
		path := filepath.Join(t.TempDir(), "tweets.csv")
		So(os.WriteFile(path, []byte(b.String()), 0o600), ShouldBeNil)

		svc := startedService(service.WithDatasetPath(path))
		defer svc.Stop()

		Convey("When analyzing the csv source for a term", func() {
			a, err := svc.Analyze(ctx, service.AnalyzeRequest{Source: source.CSVName, SearchTerm: "phone"})
			So(err, ShouldBeNil)

			Convey("Then malformed and duplicate rows are dropped and the term filters", func() {
				So(a.Source, ShouldEqual, "csv")
				So(a.Summary.Total, ShouldEqual, 2)
				So(a.Summary.Counts[model.Positive], ShouldEqual, 1)
				So(a.Summary.Counts[model.Neutral], ShouldEqual, 1)
				So(a.Summary.Counts[model.Negative], ShouldEqual, 0)
			})
		})

		Convey("When the request carries a blank term", func() {
			a, err := svc.Analyze(ctx, service.AnalyzeRequest{Source: source.CSVName, SearchTerm: " "})
			So(err, ShouldBeNil)

			Convey("Then every valid row is analyzed unfiltered", func() {
				So(a.SearchTerm, ShouldEqual, "")
				So(a.Summary.Total, ShouldEqual, 5)
				ids := make([]string, len(a.Records))
				for i, r := range a.Records {
					ids[i] = r.ID
				}
				So(ids, ShouldResemble, []string{"1", "2", "3", "4", "6"})
			})
		})

		Convey("When the term matches no row", func() {
			_, err := svc.Analyze(ctx, service.AnalyzeRequest{Source: source.CSVName, SearchTerm: "galaxy"})

			Convey("Then there is no data", func() {
				So(errors.Is(err, aggregate.ErrEmptyBatch), ShouldBeTrue)
			})
		})

		Convey("When bucketing the analysis", func() {
			_, err := svc.Analyze(ctx, service.AnalyzeRequest{Source: source.CSVName, SearchTerm: "e"})
			So(err, ShouldBeNil)
			series, err := svc.Timeline(ctx, "", time.Hour)
			So(err, ShouldBeNil)

			Convey("Then each populated hour appears once, oldest first", func() {
				So(len(series.Buckets), ShouldEqual, 3)
				So(series.Buckets[0].Start.Hour(), ShouldEqual, 10)
				So(series.Buckets[0].Counts[model.Positive], ShouldEqual, 1)
				So(series.Buckets[0].Counts[model.Negative], ShouldEqual, 1)
				So(series.Buckets[2].Start.Hour(), ShouldEqual, 12)
			})
		})
	})

	Convey("Given a service whose dataset is missing", t, func() {
		svc := startedService(service.WithDatasetPath(filepath.Join(t.TempDir(), "absent.csv")))

		Convey("Then the csv source reports the missing dataset", func() {
			_, err := svc.Analyze(ctx, service.AnalyzeRequest{Source: source.CSVName})
			So(errors.Is(err, source.ErrDatasetNotFound), ShouldBeTrue)
		})
	})
}

func TestServiceIntegration_Concurrent(t *testing.T) {
	Convey("Given concurrent analyses", t, func() {
		ctx := context.Background()
		svc := startedService(service.WithHistorySize(4))

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[string]bool)
		)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				a, err := svc.Analyze(ctx, service.AnalyzeRequest{SearchTerm: fmt.Sprintf("term-%d", i), Count: 20})
				if err != nil {
					return
				}
				_, _ = svc.Timeline(ctx, "", 0)
				mu.Lock()
				ids[a.ID] = true
				mu.Unlock()
			}(i)
		}
		wg.Wait()

		Convey("Then every analysis got a unique id and the history stayed bounded", func() {
			So(len(ids), ShouldEqual, 16)
			So(svc.GetStats()["analyses"], ShouldEqual, 4)
		})
	})
}
