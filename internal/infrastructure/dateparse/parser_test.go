package dateparse

import (
	"testing"
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	parser := NewParser()
	reference := time.Date(2021, 5, 14, 16, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"day month-abbr year", "20 jun 2020", time.Date(2020, 6, 20, 0, 0, 0, 0, time.UTC)},
		{"day full-month year", "3 december 2023", time.Date(2023, 12, 3, 0, 0, 0, 0, time.UTC)},
		{"numeric month", "29 12 2020", time.Date(2020, 12, 29, 0, 0, 0, 0, time.UTC)},
		{"zero padded components", "01 09 2023", time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"upper case month", "7 JUL 2022", time.Date(2022, 7, 7, 0, 0, 0, 0, time.UTC)},
		{"missing year uses reference year", "20 jun", time.Date(2021, 6, 20, 0, 0, 0, 0, time.UTC)},
		{"missing year full month", "30 july", time.Date(2021, 7, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.text, reference)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "Parse(%q) = %v, want %v", tt.text, got, tt.want)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	parser := NewParser()
	reference := time.Date(2021, 5, 14, 0, 0, 0, 0, time.UTC)

	for _, text := range []string{
		"",
		"jun",
		"31 feb 2020",
		"29 feb",
		"32 jan 2020",
		"1 13 2020",
		"ab jun 2020",
		"1 jun 2020 extra",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := parser.Parse(text, reference)
			assert.ErrorIs(t, err, domain.ErrUnparseableDate)
		})
	}
}

func TestParse_LeapDayWithYear(t *testing.T) {
	parser := NewParser()

	got, err := parser.Parse("29 feb 2024", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
}
