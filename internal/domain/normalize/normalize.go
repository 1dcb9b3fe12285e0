// Package normalize strips tweet text down to the words a lexicon scorer can use.
package normalize

import (
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`https?\S+|www\S+`)
	handlePattern  = regexp.MustCompile(`[@#][\p{L}\p{N}_]+`)
	symbolsPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}]+`)
)

// Normalize removes URLs, @mentions, #hashtags and every remaining character
// that is neither a word character nor whitespace, then trims the result.
//
// Passes repeat until the text stops changing, so stripping punctuation can
// never expose a new URL-like token (e.g. "w.w.w.x" becoming "wwwx").
func Normalize(raw string) string {
	out := raw
	for {
		next := pass(out)
		if next == out {
			return next
		}
		out = next
	}
}

func pass(s string) string {
	s = urlPattern.ReplaceAllString(s, "")
	s = handlePattern.ReplaceAllString(s, "")
	s = symbolsPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
