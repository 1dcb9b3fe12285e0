package model

import "time"

// Batch is one analyzed set of tweets together with how it was obtained.
type Batch struct {
	ID         string
	SearchTerm string
	Source     string
	CreatedAt  time.Time
	Records    []AnalyzedTweet
}

// Len returns the number of records in the batch.
func (b Batch) Len() int { return len(b.Records) }
