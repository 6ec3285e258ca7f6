package calendar

import (
	"strings"

	"cloud.google.com/go/civil"
)

// Order is the result of comparing two calendar days.
type Order int

const (
	Before Order = -1
	Equal  Order = 0
	After  Order = 1
)

func (o Order) String() string {
	switch o {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "equal"
	}
}

// ParseDate reads a YYYY-MM-DD calendar day.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil || !d.IsValid() {
		return civil.Date{}, &ValidationError{Kind: InvalidDate, Value: s}
	}
	return d, nil
}

// YearOf returns the calendar year of d.
func YearOf(d civil.Date) (int, error) {
	if !d.IsValid() {
		return 0, &ValidationError{Kind: InvalidDate, Value: d.String()}
	}
	return d.Year, nil
}

func IsSameYear(d civil.Date, year int) bool {
	y, err := YearOf(d)
	return err == nil && y == year
}

// DaysBetween returns end - start in whole days; negative when end is earlier.
func DaysBetween(start, end civil.Date) int {
	return end.DaysSince(start)
}

func CompareDates(a, b civil.Date) Order {
	switch {
	case a.Before(b):
		return Before
	case a.After(b):
		return After
	}
	return Equal
}
