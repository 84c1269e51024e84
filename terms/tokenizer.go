package terms

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits text into normalized terms.
type Tokenizer struct {
	stopWords bool
	minLength int
}

// TokenizerOption configures a Tokenizer.
type TokenizerOption func(*Tokenizer)

// WithStopWords enables or disables English stop-word removal.
// Default is disabled.
func WithStopWords(enabled bool) TokenizerOption {
	return func(t *Tokenizer) {
		t.stopWords = enabled
	}
}

// WithMinTokenLength drops tokens shorter than n runes.
// Default is 1, which keeps every non-empty token.
func WithMinTokenLength(n int) TokenizerOption {
	return func(t *Tokenizer) {
		if n < 1 {
			n = 1
		}
		t.minLength = n
	}
}

// NewTokenizer creates a Tokenizer.
func NewTokenizer(opts ...TokenizerOption) *Tokenizer {
	t := &Tokenizer{minLength: 1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize normalizes text and returns its terms in order of appearance.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	folded := cases.Fold().String(norm.NFKC.String(text))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) < t.minLength {
			continue
		}
		if t.stopWords && stopWords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
