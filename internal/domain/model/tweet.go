// Package model contains domain models passed between layers.
package model

import "time"

// Label is the sentiment category assigned to a tweet.
type Label string

// Sentiment labels. Every analyzed tweet carries exactly one of them.
const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Labels lists every label in presentation order.
var Labels = [...]Label{Positive, Negative, Neutral}

// Polarity thresholds separating the neutral deadband from the signed labels.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// LabelFor maps a polarity score onto its label.
func LabelFor(score float64) Label {
	switch {
	case score > PositiveThreshold:
		return Positive
	case score < NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	return l == Positive || l == Negative || l == Neutral
}

// Tweet is a raw text record produced by a generator or loader.
type Tweet struct {
	ID        string    // source identifier, empty for synthetic tweets
	Text      string    // raw tweet text
	Timestamp time.Time // creation time
	User      string    // author handle
	Retweets  int       // non-negative popularity counter
	Likes     int       // non-negative popularity counter
}

// AnalyzedTweet is a Tweet with its sentiment classification attached.
type AnalyzedTweet struct {
	Tweet
	Label Label
	Score float64 // polarity in [-1, 1]
}
