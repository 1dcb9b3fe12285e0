package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	app "github.com/okian/sentiboard/internal/app"
	"github.com/okian/sentiboard/internal/domain/aggregate"
	"github.com/okian/sentiboard/internal/domain/model"
	"github.com/okian/sentiboard/internal/domain/types"
)

// barWidth is the length of a 100% bar.
const barWidth = 40

// sampleWidth truncates long tweets in the text report.
const sampleWidth = 100

func writeText(out io.Writer, a app.Analysis, series aggregate.Series, stats *Stats, now time.Time) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Sentiment for %q via %s\n", a.SearchTerm, a.Source)
	if stats.FellBack {
		b.WriteString("(dataset not found; analyzed synthetic tweets)\n")
	} else if stats.DatasetSize > 0 {
		fmt.Fprintf(&b, "(dataset %s)\n", humanize.Bytes(uint64(stats.DatasetSize)))
	}
	fmt.Fprintf(&b, "%s tweets analyzed %s in %s, analysis %s\n\n",
		humanize.Comma(int64(a.Summary.Total)),
		humanize.RelTime(a.CreatedAt, now, "ago", "from now"),
		stats.Duration.Round(time.Millisecond),
		a.ID,
	)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, l := range model.Labels {
		pct := a.Summary.Percentages[l]
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t %s\n",
			l, humanize.Comma(int64(a.Summary.Counts[l])), pct, bar(pct))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, l := range model.Labels {
		fmt.Fprintf(&b, "\nMost liked %s tweets\n", l)
		top := a.Summary.Top[l]
		if len(top) == 0 {
			fmt.Fprintf(&b, "  %s\n", types.NoTweetsPlaceholder)
			continue
		}
		for _, r := range top {
			fmt.Fprintf(&b, "  %7s  %s\n", humanize.Comma(int64(r.Likes)), truncate(r.Text, sampleWidth))
		}
	}

	fmt.Fprintf(&b, "\nTimeline (%s buckets)\n", series.Width)
	tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "bucket\tpositive\tnegative\tneutral\t")
	for _, bucket := range series.Buckets {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t\n",
			bucket.Start.Format(types.BucketLabelLayout),
			bucket.Counts[model.Positive],
			bucket.Counts[model.Negative],
			bucket.Counts[model.Neutral],
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func bar(pct float64) string {
	n := int(pct / 100 * barWidth)
	return strings.Repeat("#", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
