package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrInvalidLexicon = errors.New("invalid lexicon")
	ErrEmptyLexicon   = errors.New("lexicon has no entries")
	ErrInvalidUTF8    = errors.New("text is not valid utf-8")
)
