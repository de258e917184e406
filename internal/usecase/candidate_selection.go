package usecase

import (
	"time"

	"github.com/expirylens/backend/internal/domain"
)

// ReduceCandidates reconciles the two search strategies. With both present,
// exact month-name candidates win and the year-first list is the fallback.
func ReduceCandidates(monthFirst []domain.ScoredDate, yearFirst []time.Time) []time.Time {
	if len(monthFirst) > 0 && len(yearFirst) > 0 {
		var exact []time.Time
		for _, candidate := range monthFirst {
			if candidate.Distance == 0 {
				exact = append(exact, candidate.Date)
			}
		}
		if len(exact) > 0 {
			return exact
		}
		return yearFirst
	}

	if len(monthFirst) > 0 {
		dates := make([]time.Time, 0, len(monthFirst))
		for _, candidate := range monthFirst {
			dates = append(dates, candidate.Date)
		}
		return dates
	}

	if len(yearFirst) > 0 {
		return yearFirst
	}

	return nil
}

// SelectExpiry picks the latest plausible candidate. A lone candidate is
// returned as is. Otherwise, with a known category, candidates may lie at
// most the category's shelf life past threshold; without one they must lie
// at least a whole day after it.
func SelectExpiry(dates []time.Time, threshold time.Time, category string) (time.Time, error) {
	switch len(dates) {
	case 0:
		return time.Time{}, domain.ErrNoExpiryDate
	case 1:
		return dates[0], nil
	}

	window, bounded := domain.ShelfLife(category)

	var latest time.Time
	found := false
	for _, date := range dates {
		offset := daysBetween(threshold, date)
		if bounded && offset > window {
			continue
		}
		if !bounded && offset <= 0 {
			continue
		}
		if !found || date.After(latest) {
			latest = date
			found = true
		}
	}

	if !found {
		return time.Time{}, domain.ErrNoFutureExpiryDate
	}
	return latest, nil
}
