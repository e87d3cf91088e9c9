package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Month is a calendar month identified by year and month number.
// The number is not range checked: "2026-13" parses and simply matches no dates.
type Month struct {
	Year   int
	Number int
}

// ParseMonth parses a month token of the form YYYY-MM.
//
// The token must split on "-" into exactly two integer parts. Zero padding is
// not required, so "2026-2" is accepted.
func ParseMonth(s string) (Month, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
	}
	number, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
	}
	return Month{Year: year, Number: number}, nil
}

// String returns the canonical zero-padded token, e.g. "2026-02".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Number)
}

// Contains reports whether d falls in the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && int(d.Time.Month()) == m.Number
}
