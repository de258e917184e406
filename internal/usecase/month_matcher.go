package usecase

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/expirylens/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// maxMonthDistance is the largest edit distance accepted as a month match
const maxMonthDistance = 1

// MonthMatcher fuzzily locates month names in a token sequence
type MonthMatcher struct {
	enableDebugLogging bool
	log                *logrus.Entry
}

// NewMonthMatcher creates a new month matcher
func NewMonthMatcher(enableDebugLogging bool) *MonthMatcher {
	return &MonthMatcher{
		enableDebugLogging: enableDebugLogging,
		log:                logrus.WithField("component", "month_matcher"),
	}
}

// FindMonths returns every (token, month) pair within maxMonthDistance, keeping
// only those at the lowest distance observed across the whole sequence.
// Ties are all kept, including several months for the same token. The
// vocabulary lists "may" under both spellings, so a May token yields two
// matches and month-first search proposes its date twice.
func (m *MonthMatcher) FindMonths(tokens []string) []domain.MonthMatch {
	var matches []domain.MonthMatch
	lowest := maxMonthDistance

	for index, token := range tokens {
		word := strings.ToLower(token)

		for _, month := range monthVocabulary {
			dist := levenshtein.Distance(month, word, nil)
			if dist > maxMonthDistance {
				continue
			}

			matches = append(matches, domain.MonthMatch{Index: index, Month: month, Distance: dist})
			if dist < lowest {
				lowest = dist
			}
		}
	}

	// Collect first, filter after: an exact hit anywhere drops every near miss
	kept := matches[:0]
	for _, match := range matches {
		if match.Distance <= lowest {
			kept = append(kept, match)
		}
	}

	if m.enableDebugLogging {
		m.log.Debugf("month matches at distance %d: %+v", lowest, kept)
	}

	if len(kept) == 0 {
		return nil
	}
	return kept
}
