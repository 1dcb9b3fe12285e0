// Package source produces tweet batches for analysis, either synthesized from
// templates or loaded from a CSV dataset.
package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/sentiboard/internal/domain/model"
)

// Generator constants.
const (
	// GeneratorName identifies synthetic batches in metrics and responses.
	GeneratorName = "generator"

	termPlaceholder = "{term}"
	historyWindow   = 7 * 24 * time.Hour
	tweetSpacing    = 10 * time.Minute
	userIDMin       = 1000
	userIDMax       = 9999
	maxRetweets     = 150
	maxLikes        = 800
)

// templates holds ten tweet shapes per intended sentiment.
var templates = map[model.Label][]string{ //nolint:gochecknoglobals // read-only template table
	model.Positive: {
		"Just got the {term}! Absolutely loving it! 😍",
		"Best phone ever! The {term} camera is incredible! 📸",
		"Apple really outdid themselves with {term}. Amazing!",
		"Upgraded to {term} - huge improvement! Worth it 💰",
		"The battery life on {term} is amazing! 🔋",
		"Finally got {term}. Best decision ever! ⭐⭐⭐⭐⭐",
		"{term} display quality is stunning! 🌈",
		"Face ID on {term} works flawlessly! 👍",
		"USB-C on {term} is a game changer! ❤️",
		"The speed on {term} is incredible! 🚀",
	},
	model.Negative: {
		"{term} is way too expensive 😞",
		"Disappointed with {term} battery life 😔",
		"Having overheating issues with {term} 🔥",
		"Price of {term} is not justified 💸",
		"Regretting my {term} purchase 😤",
		"{term} camera not as advertised 📷",
		"Build quality of {term} feels cheap 🤔",
		"Software bugs on {term} everywhere 😡",
		"{term} battery drains too quickly 🔋",
		"Not worth upgrading to {term} 👎",
	},
	model.Neutral: {
		"Got the {term} today. Setting it up.",
		"Switching to {term}. Let's see how it goes.",
		"{term} arrived. First impressions soon 📦",
		"Testing {term} features today.",
		"Comparing {term} with competitors 🤔",
		"Just unboxed {term} 🧵",
		"Day 1 with {term}. So far okay.",
		"Trying out {term} camera 📸",
		"Setting up apps on {term}",
		"{term} setup complete.",
	},
}

// DefaultWeights is the sampling mix of synthetic batches.
func DefaultWeights() map[model.Label]float64 {
	return map[model.Label]float64{
		model.Positive: 0.58,
		model.Negative: 0.15,
		model.Neutral:  0.27,
	}
}

// Generator synthesizes templated tweets about a search term.
type Generator struct {
	clock   clockwork.Clock
	seed    int64
	weights map[model.Label]float64

	mu  sync.Mutex
	rng *rand.Rand
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock sets the clock used for timestamps and time-based seeding.
func WithClock(c clockwork.Clock) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithSeed makes generation reproducible. Zero seeds from the clock.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) { g.seed = seed }
}

// WithWeights overrides the label sampling weights. Labels missing from w are
// never sampled.
func WithWeights(w map[model.Label]float64) GeneratorOption {
	return func(g *Generator) {
		if len(w) > 0 {
			g.weights = w
		}
	}
}

// NewGenerator creates a generator.
func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		clock:   clockwork.NewRealClock(),
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(g)
	}

	var sum float64
	for _, l := range model.Labels {
		w := g.weights[l]
		if w < 0 {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidWeights, l, w)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, ErrInvalidWeights
	}

	seed := g.seed
	if seed == 0 {
		seed = g.clock.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	return g, nil
}

// Name implements the service's source contract.
func (g *Generator) Name() string { return GeneratorName }

// Fetch returns n synthetic tweets mentioning term. Timestamps start seven
// days before now and advance ten minutes per tweet.
func (g *Generator) Fetch(ctx context.Context, term string, n int) ([]model.Tweet, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := g.clock.Now().Add(-historyWindow)

	g.mu.Lock()
	defer g.mu.Unlock()

	tweets := make([]model.Tweet, n)
	for i := range tweets {
		label := g.pickLabel()
		options := templates[label]
		text := strings.ReplaceAll(options[g.rng.IntN(len(options))], termPlaceholder, term)
		tweets[i] = model.Tweet{
			ID:        strconv.Itoa(i + 1),
			Text:      text,
			Timestamp: base.Add(time.Duration(i) * tweetSpacing),
			User:      "user_" + strconv.Itoa(userIDMin+g.rng.IntN(userIDMax-userIDMin+1)),
			Retweets:  g.rng.IntN(maxRetweets + 1),
			Likes:     g.rng.IntN(maxLikes + 1),
		}
	}
	return tweets, nil
}

// pickLabel draws a label proportionally to the configured weights.
func (g *Generator) pickLabel() model.Label {
	var total float64
	for _, l := range model.Labels {
		total += g.weights[l]
	}
	r := g.rng.Float64() * total
	for _, l := range model.Labels {
		w := g.weights[l]
		if w <= 0 {
			continue
		}
		if r < w {
			return l
		}
		r -= w
	}
	// floating point leftovers land on the last weighted label
	for i := len(model.Labels) - 1; i >= 0; i-- {
		if g.weights[model.Labels[i]] > 0 {
			return model.Labels[i]
		}
	}
	return model.Neutral
}
