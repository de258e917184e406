package domain

import (
	"sort"
	"strings"
)

// Units the shelf-life table is expressed in
const (
	shelfLifeMonth = 31
	shelfLifeYear  = 256
)

// shelfLifeDays maps a product category to the maximum number of days an
// expiry date may lie beyond the threshold date. Read-only after init.
var shelfLifeDays = map[string]int{
	"milk":            1 * shelfLifeMonth,
	"egg":             3 * shelfLifeMonth / 2,
	"cereal":          2 * shelfLifeYear,
	"condiment":       4 * shelfLifeYear,
	"bread":           2 * shelfLifeYear,
	"butter":          6 * shelfLifeMonth,
	"tinned tomatoes": 5 * shelfLifeYear,
	"soup":            5 * shelfLifeYear,
	"baked beans":     5 * shelfLifeYear,
	"pasta":           3 * shelfLifeYear,
}

// NormalizeCategory lowercases and trims a category name
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// ShelfLife returns the shelf-life window in days for a category
func ShelfLife(category string) (int, bool) {
	days, ok := shelfLifeDays[NormalizeCategory(category)]
	return days, ok
}

// Categories lists the categories with a known shelf-life window, sorted
func Categories() []string {
	names := make([]string, 0, len(shelfLifeDays))
	for name := range shelfLifeDays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
