package usecase

import (
	"strconv"
	"time"

	"github.com/expirylens/backend/internal/domain"
)

// MonthFirstSearch proposes one date per month match, reading the day from
// the token before the month and the year from the token after it.
// Returns nil when no match yields a parseable date.
func (d *ExpiryDetector) MonthFirstSearch(tokens []string, months []domain.MonthMatch, now time.Time) []domain.ScoredDate {
	var dates []domain.ScoredDate

	for _, match := range months {
		var day, year string

		if i := match.Index - 1; i >= 0 && i < len(tokens) && DayIsValid(tokens[i]) {
			day = tokens[i]
		}
		if i := match.Index + 1; i < len(tokens) {
			if converted, ok := yearInWindow(tokens[i], now, d.yearFilterLow, d.yearFilterHigh); ok {
				year = converted
			}
		}

		// "20 jun 21 jul": the 21 is the next date's day, not this one's year
		if year != "" && hasMonthAt(months, match.Index+2) && DayIsValid(tokens[match.Index+1]) {
			year = ""
		}

		var text string
		switch {
		case day != "" && year != "":
			text = day + " " + match.Month + " " + year
		case day != "":
			text = day + " " + match.Month
		case year != "":
			text = "1 " + match.Month + " " + year
		default:
			continue
		}

		date, err := d.parser.Parse(text, now)
		if err != nil {
			if d.enableDebugLogging {
				d.log.Debugf("month-first: dropping %q: %v", text, err)
			}
			continue
		}

		dates = append(dates, domain.ScoredDate{Date: date, Distance: match.Distance})
	}

	return dates
}

// hasMonthAt reports whether any month match sits at token index
func hasMonthAt(months []domain.MonthMatch, index int) bool {
	for _, match := range months {
		if match.Index == index {
			return true
		}
	}
	return false
}

// yearAnchor is a year-first candidate with the token index of its year
type yearAnchor struct {
	date  time.Time
	index int
}

// YearFirstSearch proposes dates anchored on numeric year tokens, reading the
// month from the previous token and the day from the one before that.
// Returns nil when nothing parses.
func (d *ExpiryDetector) YearFirstSearch(tokens []string, now time.Time) []time.Time {
	var anchors []yearAnchor

	for index, token := range tokens {
		year, ok := ConvertYear(token, now)
		if !ok {
			continue
		}
		value, err := strconv.Atoi(year)
		if err != nil || value < now.Year()-d.yearFirstWindow || value > now.Year()+d.yearFirstWindow {
			continue
		}

		var day, month string
		if index >= 1 && MonthIsValid(tokens[index-1]) {
			month = tokens[index-1]
		}
		if index >= 2 {
			if proposed := cleanDayCandidate(tokens[index-2]); DayIsValid(proposed) {
				day = proposed
			}
		}

		var text string
		switch {
		case day != "" && month != "":
			text = day + " " + month + " " + year
		case month != "":
			text = "1 " + month + " " + year
		default:
			continue
		}

		date, err := d.parser.Parse(text, now)
		if err != nil {
			if d.enableDebugLogging {
				d.log.Debugf("year-first: dropping %q: %v", text, err)
			}
			continue
		}

		anchors = append(anchors, yearAnchor{date: date, index: index})
	}

	// Adjacent year anchors mean the earlier "year" was really the later date's month
	var dates []time.Time
	for i, anchor := range anchors {
		if i+1 < len(anchors) && anchors[i+1].index == anchor.index+1 {
			continue
		}
		dates = append(dates, anchor.date)
	}

	return dates
}
