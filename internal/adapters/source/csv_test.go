package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/model"
)

const airlineCSV = `tweet_id,airline_sentiment,name,retweet_count,text,tweet_created
570306133677760513,neutral,cairdin,0,@VirginAmerica What @dhepburn said.,2015-02-24 11:35:52 -0800
570301130888122368,positive,jnardino,1,@VirginAmerica plus you've added commercials to the experience... tacky.,2015-02-24 11:15:59 -0800
570301083672813571,neutral,,abc,@VirginAmerica I didn't today... Must mean I need to take another trip!,2015-02-24 11:15:48 -0800
570301031407624196,negative,yvonnalynn,-3,,2015-02-24 11:15:36 -0800
570306133677760513,neutral,cairdin,0,@VirginAmerica What @dhepburn said.,2015-02-24 11:35:52 -0800
`

func TestCSVDecode(t *testing.T) {
	now := time.Date(2024, 9, 20, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	Convey("Given an airline-style dataset", t, func() {
		l := NewCSVLoader("", WithCSVClock(clockwork.NewFakeClockAt(now)))
		tweets, report, err := l.Decode(ctx, strings.NewReader(airlineCSV))
		So(err, ShouldBeNil)

		Convey("Then headers are mapped onto tweet fields", func() {
			So(len(tweets), ShouldEqual, 3)
			first := tweets[0]
			So(first.ID, ShouldEqual, "570306133677760513")
			So(first.Text, ShouldEqual, "@VirginAmerica What @dhepburn said.")
			So(first.User, ShouldEqual, "cairdin")
			So(first.Timestamp.UTC(), ShouldEqual, time.Date(2015, 2, 24, 19, 35, 52, 0, time.UTC))
			So(tweets[1].Retweets, ShouldEqual, 1)
		})

		Convey("And malformed fields are defaulted", func() {
			third := tweets[2]
			So(third.User, ShouldEqual, "anonymous")
			So(third.Retweets, ShouldEqual, 0)
			So(third.Likes, ShouldEqual, 0)
		})

		Convey("And the report accounts for every row", func() {
			So(report.Rows, ShouldEqual, 5)
			So(report.Loaded, ShouldEqual, 3)
			So(report.Rejected, ShouldEqual, 1)
			So(report.Duplicates, ShouldEqual, 1)
			So(report.Defaulted, ShouldEqual, 1)
		})
	})

	Convey("Given a dataset without timestamps", t, func() {
		l := NewCSVLoader("", WithCSVClock(clockwork.NewFakeClockAt(now)))
		tweets, report, err := l.Decode(ctx, strings.NewReader("text,likes\nfirst,3\nsecond,4.0\nthird,\n"))
		So(err, ShouldBeNil)

		Convey("Then timestamps are backfilled a minute apart ending now", func() {
			So(len(tweets), ShouldEqual, 3)
			So(tweets[0].Timestamp, ShouldEqual, now.Add(-2*time.Minute))
			So(tweets[1].Timestamp, ShouldEqual, now.Add(-time.Minute))
			So(tweets[2].Timestamp, ShouldEqual, now)
			So(report.Defaulted, ShouldEqual, 3)
		})

		Convey("And integral float counters are accepted", func() {
			So(tweets[0].Likes, ShouldEqual, 3)
			So(tweets[1].Likes, ShouldEqual, 4)
			So(tweets[2].Likes, ShouldEqual, 0)
		})
	})

	Convey("Given timestamps in several layouts", t, func() {
		data := "tweet,created_at\n" +
			"a,2024-05-01T10:00:00Z\n" +
			"b,2024-05-01 10:00:00\n" +
			"c,Wed May 01 10:00:00 +0000 2024\n" +
			"d,2024-05-01\n" +
			"e,yesterday\n"
		l := NewCSVLoader("", WithCSVClock(clockwork.NewFakeClockAt(now)))
		tweets, _, err := l.Decode(ctx, strings.NewReader(data))
		So(err, ShouldBeNil)

		Convey("Then known layouts parse and unknown ones fall back to now", func() {
			want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
			So(tweets[0].Timestamp.Equal(want), ShouldBeTrue)
			So(tweets[1].Timestamp.Equal(want), ShouldBeTrue)
			So(tweets[2].Timestamp.Equal(want), ShouldBeTrue)
			So(tweets[3].Timestamp.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(tweets[4].Timestamp, ShouldEqual, now)
		})
	})

	Convey("Given a clock in another zone than the dataset", t, func() {
		zone := time.FixedZone("IST", 5*3600+1800)
		local := time.Date(2024, 5, 1, 14, 37, 0, 0, zone)
		data := "text,created_at\n" +
			"first,2024-05-01 09:07:00\n" +
			"second,not-a-date\n"
		l := NewCSVLoader("", WithCSVClock(clockwork.NewFakeClockAt(local)))
		tweets, _, err := l.Decode(ctx, strings.NewReader(data))
		So(err, ShouldBeNil)
		So(len(tweets), ShouldEqual, 2)

		Convey("Then backfilled timestamps use the dataset location", func() {
			So(tweets[1].Timestamp.Equal(local), ShouldBeTrue)
			So(tweets[1].Timestamp.Location(), ShouldEqual, time.UTC)
		})

		Convey("And the rows share one hour bucket", func() {
			records := []model.AnalyzedTweet{
				{Tweet: tweets[0], Label: model.Positive},
				{Tweet: tweets[1], Label: model.Negative},
			}
			s, err := aggregate.Bucketize(records, time.Hour)
			So(err, ShouldBeNil)
			So(len(s.Buckets), ShouldEqual, 1)
			So(s.Buckets[0].Start.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})

	Convey("Given a header without a text column", t, func() {
		l := NewCSVLoader("")
		_, _, err := l.Decode(ctx, strings.NewReader("id,user\n1,bob\n"))

		Convey("Then it is rejected", func() {
			So(errors.Is(err, ErrMissingTextColumn), ShouldBeTrue)
		})
	})

	Convey("Given an empty input", t, func() {
		l := NewCSVLoader("")
		_, _, err := l.Decode(ctx, strings.NewReader(""))

		Convey("Then it reports the missing text column", func() {
			So(errors.Is(err, ErrMissingTextColumn), ShouldBeTrue)
		})
	})
}

func TestCSVFetch(t *testing.T) {
	ctx := context.Background()

	Convey("Given a dataset on disk", t, func() {
		path := filepath.Join(t.TempDir(), "tweets.csv")
		data := "text\nLoving my iPhone 15\nIPHONE 15 is too expensive\nPixel is fine\nanother iphone 15 post\n"
		So(os.WriteFile(path, []byte(data), 0o600), ShouldBeNil)
		l := NewCSVLoader(path)
		So(l.Name(), ShouldEqual, CSVName)
		So(l.Path(), ShouldEqual, path)

		Convey("When fetching with a term", func() {
			tweets, err := l.Fetch(ctx, "iphone 15", 0)

			Convey("Then only matching rows are kept, ignoring case", func() {
				So(err, ShouldBeNil)
				So(len(tweets), ShouldEqual, 3)
			})
		})

		Convey("When fetching with a cap", func() {
			tweets, err := l.Fetch(ctx, "", 2)

			Convey("Then at most n rows are returned in file order", func() {
				So(err, ShouldBeNil)
				So(len(tweets), ShouldEqual, 2)
				So(tweets[0].Text, ShouldEqual, "Loving my iPhone 15")
			})
		})

		Convey("When no row matches", func() {
			tweets, err := l.Fetch(ctx, "Galaxy", 0)

			Convey("Then the batch is empty without error", func() {
				So(err, ShouldBeNil)
				So(tweets, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a missing file", t, func() {
		l := NewCSVLoader(filepath.Join(t.TempDir(), "absent.csv"))
		_, err := l.Fetch(ctx, "", 0)

		Convey("Then ErrDatasetNotFound is returned", func() {
			So(errors.Is(err, ErrDatasetNotFound), ShouldBeTrue)
		})
	})
}
