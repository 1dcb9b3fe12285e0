package aggregate

import (
	"sort"
	"time"

	"github.com/okian/sentiboard/internal/domain/model"
)

// DefaultBucketWidth is the timeline resolution used when none is requested.
const DefaultBucketWidth = time.Hour

// Bucket holds the per-label tweet counts of one time interval.
type Bucket struct {
	Start  time.Time
	Counts map[model.Label]int // always holds every label
}

// Series is a chronologically ordered list of buckets.
type Series struct {
	Width   time.Duration
	Buckets []Bucket
}

// Bucketize groups records into width-wide intervals, flooring each timestamp
// to the start of its interval. Every timestamp is floored on the wall clock of
// the first record's location, so a batch mixing zones still yields
// non-overlapping buckets. Only intervals holding at least one record are
// returned, oldest first.
func Bucketize(records []model.AnalyzedTweet, width time.Duration) (Series, error) {
	if len(records) == 0 {
		return Series{}, ErrEmptyBatch
	}
	if width <= 0 {
		return Series{}, ErrInvalidBucketWidth
	}

	loc := records[0].Timestamp.Location()
	index := make(map[int64]int)
	var buckets []Bucket
	for _, r := range records {
		start := floor(r.Timestamp.In(loc), width)
		key := start.UnixNano()
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, newBucket(start))
		}
		buckets[i].Counts[r.Label]++
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return Series{Width: width, Buckets: buckets}, nil
}

// floor truncates t to width on its wall clock, so a 14:37 tweet in a
// +05:30 zone lands in the 14:00 bucket rather than 14:30.
func floor(t time.Time, width time.Duration) time.Time {
	_, offset := t.Zone()
	shift := time.Duration(offset) * time.Second
	return t.Add(shift).Truncate(width).Add(-shift)
}

func newBucket(start time.Time) Bucket {
	counts := make(map[model.Label]int, len(model.Labels))
	for _, l := range model.Labels {
		counts[l] = 0
	}
	return Bucket{Start: start, Counts: counts}
}
