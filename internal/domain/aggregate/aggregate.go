// Package aggregate rolls analyzed tweets up into label breakdowns and
// time-bucketed series.
package aggregate

import (
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okian/sentiboard/internal/domain/model"
)

// Aggregation constants.
const (
	// TopN bounds the sample tweets kept per label.
	TopN = 5
	// percentPlaces is the number of decimals kept in percentages.
	percentPlaces = 1
	// exactPlaces is enough decimals to carry a float64 ratio below 100
	// without creating a false tie.
	exactPlaces = 60
)

// Summary is the label breakdown of one batch.
type Summary struct {
	Total       int
	Counts      map[model.Label]int
	Percentages map[model.Label]float64
	// Top holds up to TopN tweets per label, most liked first.
	Top map[model.Label][]model.AnalyzedTweet
}

// Summarize counts labels, computes rounded percentages and selects the most
// liked tweets of every label. Every label is present in the result maps.
func Summarize(records []model.AnalyzedTweet) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrEmptyBatch
	}

	s := Summary{
		Total:       len(records),
		Counts:      make(map[model.Label]int, len(model.Labels)),
		Percentages: make(map[model.Label]float64, len(model.Labels)),
		Top:         make(map[model.Label][]model.AnalyzedTweet, len(model.Labels)),
	}
	byLabel := make(map[model.Label][]model.AnalyzedTweet, len(model.Labels))
	for _, r := range records {
		s.Counts[r.Label]++
		byLabel[r.Label] = append(byLabel[r.Label], r)
	}

	for _, l := range model.Labels {
		s.Percentages[l] = Percentage(s.Counts[l], s.Total)
		s.Top[l] = topByLikes(byLabel[l], TopN)
	}
	return s, nil
}

// Percentage returns count/total*100 rounded to one decimal place. The ratio
// is taken in float64 and its exact binary value is rounded half to even, so
// 1/16 gives 6.2 and 3/400 gives 0.8. It returns 0 when total is not positive.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	ratio := float64(count) / float64(total) * 100
	exact := new(big.Rat).SetFloat64(ratio)
	return decimal.NewFromBigRat(exact, exactPlaces).
		RoundBank(percentPlaces).
		InexactFloat64()
}

// topByLikes returns up to n records ordered by likes descending; records with
// equal likes keep their input order.
func topByLikes(records []model.AnalyzedTweet, n int) []model.AnalyzedTweet {
	sorted := make([]model.AnalyzedTweet, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Likes > sorted[j].Likes
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
