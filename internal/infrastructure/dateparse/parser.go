package dateparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

// dayFirstLayouts accepts day-month-year ordering only. Month may be a full
// name, an abbreviation or a number; the year may be omitted.
var dayFirstLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2 1 2006",
	"2 Jan",
	"2 January",
}

// Parser resolves assembled date strings against a reference date
type Parser struct {
	config *now.Config
}

// NewParser creates a day-first date parser
func NewParser() *Parser {
	return &Parser{
		config: &now.Config{
			WeekStartDay: time.Monday,
			TimeFormats:  dayFirstLayouts,
		},
	}
}

// Parse parses "<day> <month> [year]". A missing year is filled from reference.
func (p *Parser) Parse(text string, reference time.Time) (time.Time, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 3 {
		return time.Time{}, errors.Wrapf(domain.ErrUnparseableDate, "%q", text)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, errors.Wrapf(domain.ErrUnparseableDate, "%q: day", text)
	}

	t, err := p.config.With(reference).Parse(strings.Join(fields, " "))
	if err != nil {
		return time.Time{}, errors.Wrapf(domain.ErrUnparseableDate, "%q: %v", text, err)
	}

	// 29 feb without a year parses against year 0 and rolls over in a non-leap reference year
	if t.Day() != day {
		return time.Time{}, errors.Wrapf(domain.ErrUnparseableDate, "%q: day out of range", text)
	}

	return t, nil
}
