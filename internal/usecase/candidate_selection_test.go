package usecase

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/expirylens/backend/internal/domain"
)

func TestReduceCandidates(t *testing.T) {
	jun := date(2027, time.June, 20)
	jul := date(2027, time.July, 1)
	aug := date(2027, time.August, 5)

	testCases := []struct {
		name       string
		monthFirst []domain.ScoredDate
		yearFirst  []time.Time
		want       []time.Time
	}{
		{
			name:       "exact month-first wins over year-first",
			monthFirst: []domain.ScoredDate{{Date: jun, Distance: 0}, {Date: jul, Distance: 1}},
			yearFirst:  []time.Time{aug},
			want:       []time.Time{jun},
		},
		{
			name:       "fuzzy month-first falls back to year-first",
			monthFirst: []domain.ScoredDate{{Date: jul, Distance: 1}},
			yearFirst:  []time.Time{aug},
			want:       []time.Time{aug},
		},
		{
			name:       "month-first alone keeps fuzzy matches",
			monthFirst: []domain.ScoredDate{{Date: jun, Distance: 0}, {Date: jul, Distance: 1}},
			want:       []time.Time{jun, jul},
		},
		{
			name:      "year-first alone",
			yearFirst: []time.Time{aug, jun},
			want:      []time.Time{aug, jun},
		},
		{
			name: "neither",
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReduceCandidates(tc.monthFirst, tc.yearFirst)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ReduceCandidates() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSelectExpiry(t *testing.T) {
	threshold := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	midnight := date(2026, time.March, 10)

	testCases := []struct {
		name      string
		dates     []time.Time
		threshold time.Time
		category  string
		want      time.Time
		wantErr   error
	}{
		{
			name:      "no candidates",
			threshold: threshold,
			wantErr:   domain.ErrNoExpiryDate,
		},
		{
			name:      "single past candidate returned unfiltered",
			dates:     []time.Time{date(2020, time.January, 1)},
			threshold: threshold,
			want:      date(2020, time.January, 1),
		},
		{
			name:      "single candidate ignores category window",
			dates:     []time.Time{date(2030, time.January, 1)},
			threshold: threshold,
			category:  "milk",
			want:      date(2030, time.January, 1),
		},
		{
			name:      "latest future candidate",
			dates:     []time.Time{date(2026, time.June, 1), date(2025, time.January, 1), date(2027, time.January, 1)},
			threshold: threshold,
			want:      date(2027, time.January, 1),
		},
		{
			name:      "all past candidates",
			dates:     []time.Time{date(2020, time.January, 1), date(2020, time.February, 2)},
			threshold: threshold,
			wantErr:   domain.ErrNoFutureExpiryDate,
		},
		{
			name:      "less than a whole day ahead is not future",
			dates:     []time.Time{date(2026, time.March, 11), date(2020, time.February, 2)},
			threshold: threshold,
			wantErr:   domain.ErrNoFutureExpiryDate,
		},
		{
			name:      "next day is future from midnight",
			dates:     []time.Time{date(2026, time.March, 11), date(2020, time.February, 2)},
			threshold: midnight,
			want:      date(2026, time.March, 11),
		},
		{
			name:      "milk window excludes far dates",
			dates:     []time.Time{date(2027, time.January, 1), date(2026, time.March, 20)},
			threshold: threshold,
			category:  "milk",
			want:      date(2026, time.March, 20),
		},
		{
			name:      "category window admits past dates",
			dates:     []time.Time{date(2025, time.January, 1), date(2026, time.December, 1)},
			threshold: threshold,
			category:  "milk",
			want:      date(2025, time.January, 1),
		},
		{
			name:      "milk window boundary is inclusive",
			dates:     []time.Time{date(2026, time.April, 10), date(2026, time.April, 11)},
			threshold: midnight,
			category:  "milk",
			want:      date(2026, time.April, 10),
		},
		{
			name:      "nothing inside category window",
			dates:     []time.Time{date(2027, time.January, 1), date(2028, time.January, 1)},
			threshold: threshold,
			category:  "egg",
			wantErr:   domain.ErrNoFutureExpiryDate,
		},
		{
			name:      "long shelf life keeps latest",
			dates:     []time.Time{date(2027, time.January, 1), date(2028, time.January, 1)},
			threshold: threshold,
			category:  "soup",
			want:      date(2028, time.January, 1),
		},
		{
			name:      "unknown category uses futurity",
			dates:     []time.Time{date(2027, time.January, 1), date(2028, time.January, 1)},
			threshold: threshold,
			category:  "caviar",
			want:      date(2028, time.January, 1),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SelectExpiry(tc.dates, tc.threshold, tc.category)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("SelectExpiry() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectExpiry() unexpected error = %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("SelectExpiry() = %v, want %v", got, tc.want)
			}
		})
	}
}
