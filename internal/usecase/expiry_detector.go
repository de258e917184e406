package usecase

import (
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// Year windows used when no configuration is given
const (
	defaultYearFilter      = 30
	defaultYearFirstWindow = 20
)

// DetectorConfig holds configuration for the expiry detector
type DetectorConfig struct {
	// YearFilterLow and YearFilterHigh bound the year next to a month name
	YearFilterLow  int
	YearFilterHigh int
	// YearFirstWindow bounds numeric tokens tried as year anchors
	YearFirstWindow    int
	EnableDebugLogging bool
}

// ExpiryDetector extracts a best-guess expiry date from OCR words.
// It holds no mutable state and is safe for concurrent use.
type ExpiryDetector struct {
	tokenizer          *Tokenizer
	monthMatcher       *MonthMatcher
	parser             domain.DateParser
	yearFilterLow      int
	yearFilterHigh     int
	yearFirstWindow    int
	enableDebugLogging bool
	log                *logrus.Entry
}

// NewExpiryDetector creates a new detector with the given date parser and configuration
func NewExpiryDetector(parser domain.DateParser, config DetectorConfig) *ExpiryDetector {
	low := config.YearFilterLow
	if low <= 0 {
		low = defaultYearFilter
	}

	high := config.YearFilterHigh
	if high <= 0 {
		high = defaultYearFilter
	}

	window := config.YearFirstWindow
	if window <= 0 {
		window = defaultYearFirstWindow
	}

	return &ExpiryDetector{
		tokenizer:          NewTokenizer(config.EnableDebugLogging),
		monthMatcher:       NewMonthMatcher(config.EnableDebugLogging),
		parser:             parser,
		yearFilterLow:      low,
		yearFilterHigh:     high,
		yearFirstWindow:    window,
		enableDebugLogging: config.EnableDebugLogging,
		log:                logrus.WithField("component", "expiry"),
	}
}

// Decompose splits raw OCR words into tokens
func (d *ExpiryDetector) Decompose(texts []string) []string {
	return d.tokenizer.Decompose(texts)
}

// FindMonths locates fuzzy month-name matches in tokens
func (d *ExpiryDetector) FindMonths(tokens []string) []domain.MonthMatch {
	return d.monthMatcher.FindMonths(tokens)
}

// YearIsValid checks whether s converts to a year inside the month-first window around now
func (d *ExpiryDetector) YearIsValid(s string, now time.Time) bool {
	_, ok := yearInWindow(s, now, d.yearFilterLow, d.yearFilterHigh)
	return ok
}

// Extract runs the full pipeline: tokenize, search month-first and year-first,
// reduce, then select against threshold and the optional category.
// now is the request clock used for every year window and default year.
// Returns the selected date and the reduced candidates; the error is
// domain.ErrNoExpiryDate or domain.ErrNoFutureExpiryDate when nothing fits.
func (d *ExpiryDetector) Extract(texts []string, category string, threshold, now time.Time) (time.Time, []time.Time, error) {
	tokens := d.Decompose(texts)

	var monthFirst []domain.ScoredDate
	if months := d.FindMonths(tokens); len(months) > 0 {
		monthFirst = d.MonthFirstSearch(tokens, months, now)
	}
	yearFirst := d.YearFirstSearch(tokens, now)

	candidates := ReduceCandidates(monthFirst, yearFirst)
	date, err := SelectExpiry(candidates, threshold, category)

	if d.enableDebugLogging {
		d.log.WithFields(logrus.Fields{
			"tokens":      tokens,
			"month_first": len(monthFirst),
			"year_first":  len(yearFirst),
			"candidates":  candidates,
			"category":    category,
			"threshold":   threshold.Format("2006-01-02"),
		}).Debugf("selected %v (err: %v)", date, err)
	}

	return date, candidates, err
}
