package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayIsValid checks whether s is a numeric day of month (1-31)
func DayIsValid(s string) bool {
	if !isNumeric(s) {
		return false
	}
	day, err := strconv.Atoi(s)
	return err == nil && day >= 1 && day <= 31
}

// MonthIsValid checks whether s is a vocabulary month name or a numeric month (1-12)
func MonthIsValid(s string) bool {
	if isAlpha(s) {
		lower := strings.ToLower(s)
		for _, month := range monthVocabulary {
			if lower == month {
				return true
			}
		}
		return false
	}

	if isNumeric(s) {
		month, err := strconv.Atoi(s)
		return err == nil && month >= 1 && month <= 12
	}

	return false
}

// ConvertYear expands a 2-digit year (or a 3-digit one with a leading zero)
// to 4 digits, choosing the century closest to now. 4-digit years are
// returned unchanged; any other input is rejected.
func ConvertYear(short string, now time.Time) (string, bool) {
	if !isNumeric(short) {
		return "", false
	}

	switch {
	case len(short) == 4:
		return short, true
	case len(short) == 3 && short[0] == '0':
		short = short[1:]
	case len(short) == 2:
	default:
		return "", false
	}

	value, err := strconv.Atoi(short)
	if err != nil {
		return "", false
	}

	century := now.Year() / 100
	diff := value - now.Year()%100
	if diff > 50 {
		century--
	} else if diff < -50 {
		century++
	}

	return fmt.Sprintf("%d%s", century, short), true
}

// yearInWindow converts s and checks it lies within [now-low, now+high]
func yearInWindow(s string, now time.Time, low, high int) (string, bool) {
	converted, ok := ConvertYear(s, now)
	if !ok {
		return "", false
	}

	year, err := strconv.Atoi(converted)
	if err != nil {
		return "", false
	}

	if year < now.Year()-low || year > now.Year()+high {
		return "", false
	}
	return converted, true
}

// cleanDayCandidate strips OCR noise from a token proposed as a day. Long
// numbers cannot be days; otherwise a token ending in a digit keeps only the
// digits among its last two characters.
func cleanDayCandidate(s string) string {
	if isNumeric(s) && len(s) > 3 {
		return ""
	}

	runes := []rune(s)
	if len(runes) == 0 || runes[len(runes)-1] < '0' || runes[len(runes)-1] > '9' {
		return s
	}

	if len(runes) > 2 {
		runes = runes[len(runes)-2:]
	}
	digits := make([]rune, 0, 2)
	for _, r := range runes {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	return string(digits)
}

// daysBetween returns the whole calendar days from -> to, rounded toward
// negative infinity. Both sides are compared by wall clock so zone offsets
// and DST shifts never move a date across a day boundary.
func daysBetween(from, to time.Time) int {
	d := wallClock(to).Sub(wallClock(from))
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) < 0 {
		days--
	}
	return days
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
