package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// monthVocabulary holds the full and abbreviated month names, month by month.
// Order matters: the tokenizer uses the first hit.
var monthVocabulary = []string{
	"january", "jan",
	"february", "feb",
	"march", "mar",
	"april", "apr",
	"may", "may",
	"june", "jun",
	"july", "jul",
	"august", "aug",
	"september", "sep",
	"october", "oct",
	"november", "nov",
	"december", "dec",
}

// isDelimiter reports whether r separates date components in OCR text
func isDelimiter(r rune) bool {
	switch r {
	case '.', ',', '-', '/', '\\', '|':
		return true
	}
	return false
}

// Tokenizer decomposes raw OCR words into atomic date-component candidates
type Tokenizer struct {
	enableDebugLogging bool
	log                *logrus.Entry
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(enableDebugLogging bool) *Tokenizer {
	return &Tokenizer{
		enableDebugLogging: enableDebugLogging,
		log:                logrus.WithField("component", "tokenizer"),
	}
}

// Decompose splits every OCR word into tokens, preserving input order.
// No returned token is empty.
func (t *Tokenizer) Decompose(texts []string) []string {
	tokens := make([]string, 0, len(texts))

	for _, text := range texts {
		// Step 1: Split mixed alphanumerics into letter and digit runs ("4848jun" -> "4848", "jun")
		pieces := splitAlphaNumeric(text)

		for _, piece := range pieces {
			// Step 2: Split on delimiters ("03.06.19" -> "03", "06", "19")
			for _, part := range strings.FieldsFunc(piece, isDelimiter) {
				// Step 3: Cut embedded month names out ("fjjuneifs" -> "fj", "june", "ifs")
				tokens = append(tokens, splitMonth(part)...)
			}
		}
	}

	if t.enableDebugLogging {
		t.log.WithField("input", texts).Debugf("decomposed into %d tokens: %q", len(tokens), tokens)
	}

	return tokens
}

// splitAlphaNumeric splits a string made only of letters and digits, and
// containing both, into maximal runs of each. Anything else is returned whole.
func splitAlphaNumeric(s string) []string {
	if !isAlphaNumeric(s) || isAlpha(s) || isNumeric(s) {
		return []string{s}
	}

	var runs []string
	start := 0
	prevDigit := false
	for i, r := range s {
		digit := unicode.IsDigit(r)
		if i > 0 && digit != prevDigit {
			runs = append(runs, s[start:i])
			start = i
		}
		prevDigit = digit
	}
	return append(runs, s[start:])
}

// splitMonth partitions s around the first vocabulary month it contains.
// A piece exactly one character longer than the month is left intact since
// that is a misspelling for the matcher, not an embedded month.
func splitMonth(s string) []string {
	lower := asciiLower(s)
	length := utf8.RuneCountInString(s)

	for _, month := range monthVocabulary {
		idx := strings.Index(lower, month)
		if idx < 0 || length == len(month)+1 {
			continue
		}

		parts := make([]string, 0, 3)
		if before := s[:idx]; before != "" {
			parts = append(parts, before)
		}
		parts = append(parts, month)
		if after := s[idx+len(month):]; after != "" {
			parts = append(parts, after)
		}
		return parts
	}

	return []string{s}
}

// asciiLower lowercases ASCII letters only so byte offsets stay aligned with s
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// isAlphaNumeric checks if a non-empty string contains only letters and digits
func isAlphaNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// isAlpha checks if a non-empty string contains only letters
func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
