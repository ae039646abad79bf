// Package calendar models a day as part of a month grid: the day, month and
// year of a date together with the month-level layout values needed to draw
// it in a seven column calendar.
package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day considered as part of a month grid.
//
// The month-level values (days in month, number of week rows and the column
// of the first day) are computed once on construction and depend only on the
// year, month and first weekday.
type Date struct {
	year         int
	month        time.Month
	day          int
	firstWeekday time.Weekday

	daysInMonth int
	weekRows    int
	firstColumn int
}

// FromTime extracts the day, month and year of t using the provider's rules.
func FromTime(t time.Time, p Provider) Date {
	year, month, day := p.Components(t)
	return New(year, month, day, p.FirstWeekday())
}

// New returns the Date for the given components. Out of range months and days
// are normalized the same way time.Date normalizes them.
func New(year int, month time.Month, day int, firstWeekday time.Weekday) Date {
	normalized := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	year, month, day = normalized.Date()

	d := Date{
		year:         year,
		month:        month,
		day:          day,
		firstWeekday: firstWeekday,
		daysInMonth:  daysInMonth(month, year),
	}

	weekday := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	d.firstColumn = (int(weekday) - int(firstWeekday) + 7) % 7
	d.weekRows = (d.firstColumn + d.daysInMonth + 6) / 7

	return d
}

func daysInMonth(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) Year() int                  { return d.year }
func (d Date) Month() time.Month          { return d.month }
func (d Date) Day() int                   { return d.day }
func (d Date) DaysInMonth() int           { return d.daysInMonth }
func (d Date) WeekRows() int              { return d.weekRows }
func (d Date) FirstColumn() int           { return d.firstColumn }
func (d Date) FirstWeekday() time.Weekday { return d.firstWeekday }

// IsZero reports whether d was never constructed.
func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// MonthsBetween returns the number of months from a's month up to and
// including b's month. It returns 0 when a is after b, so callers that need
// a signed distance have to check the ordering themselves.
func MonthsBetween(a, b Date) int {
	if a.After(b) {
		return 0
	}

	return b.year*12 + int(b.month) - (a.year*12 + int(a.month)) + 1
}

// AddMonths returns the date n months away. The day is kept when the target
// month is long enough and clamped to its last day otherwise.
func (d Date) AddMonths(n int) Date {
	index := d.year*12 + int(d.month) - 1 + n
	year := floorDiv(index, 12)
	month := time.Month(index - year*12 + 1)

	day := min(d.day, daysInMonth(month, year))

	return New(year, month, day, d.firstWeekday)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

// BeginOfMonth returns the first day of d's month.
func (d Date) BeginOfMonth() Date {
	d.day = 1
	return d
}

// AdvanceOneDay moves d to the next day of the same month. It stops at the
// last day of the month instead of rolling over.
func (d *Date) AdvanceOneDay() {
	d.day = min(d.daysInMonth, d.day+1)
}

// Compare orders dates by year, month and day and returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

func sign(v int) int {
	if v < 0 {
		return -1
	}

	if v > 0 {
		return 1
	}

	return 0
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }
func (d Date) Equal(other Date) bool  { return d.Compare(other) == 0 }

// SameMonth reports whether d and other share a year and month.
func (d Date) SameMonth(other Date) bool {
	return d.year == other.year && d.month == other.month
}

// WithFirstWeekday recomputes the month layout for a different week start.
func (d Date) WithFirstWeekday(firstWeekday time.Weekday) Date {
	return New(d.year, d.month, d.day, firstWeekday)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// MonthString formats the month of d as YYYY-MM.
func (d Date) MonthString() string {
	return fmt.Sprintf("%04d-%02d", d.year, d.month)
}

// ParseDate parses a date in the YYYY-MM-DD format.
func ParseDate(value string, firstWeekday time.Weekday) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", value, err)
	}

	return New(t.Year(), t.Month(), t.Day(), firstWeekday), nil
}

// ParseMonth parses a month in the YYYY-MM format and returns its first day.
func ParseMonth(value string, firstWeekday time.Weekday) (Date, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return Date{}, fmt.Errorf("parsing month %q: %w", value, err)
	}

	return New(t.Year(), t.Month(), 1, firstWeekday), nil
}
