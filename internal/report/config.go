package report

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/sentiboard/internal/domain/types"
)

// Config holds configuration for one offline analysis
type Config struct {
	Term        string        // Search term; empty selects the default
	Count       int           // Tweets to analyze; 0 selects the default
	CSVPath     string        // Dataset to read; empty or missing falls back to synthetic tweets
	LexiconPath string        // Optional lexicon merged over the embedded one
	Seed        int64         // Generator seed; 0 seeds from the clock
	Bucket      time.Duration // Timeline bucket width
	JSON        bool          // Emit JSON instead of the text report
	Verbose     bool          // Log at debug level
	Clock       clockwork.Clock
}

// Result is the JSON document written with -json.
type Result struct {
	Summary  types.SummaryResponse  `json:"summary"`
	Timeline types.TimelineResponse `json:"timeline"`
	FellBack bool                   `json:"fell_back,omitempty"`
}

// Stats describes how a run went.
type Stats struct {
	Source      string
	FellBack    bool
	DatasetSize int64
	StartTime   time.Time
	Duration    time.Duration
}
