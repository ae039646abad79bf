package calendar

import "time"

// Hard limits for configured year bounds.
const (
	MinYear = 1900
	MaxYear = 2100
)

// YearBounds swaps reversed bounds and clamps both into [MinYear, MaxYear].
func YearBounds(minYear, maxYear int) (int, int) {
	if minYear > maxYear {
		minYear, maxYear = maxYear, minYear
	}

	return clampYear(minYear), clampYear(maxYear)
}

func clampYear(year int) int {
	return max(MinYear, min(MaxYear, year))
}

// Range is the span of selectable dates together with the optional selection.
type Range struct {
	min      Date
	max      Date
	selected *Date
}

// NewRange returns the range between min and max, swapping them if needed.
func NewRange(minDate, maxDate Date) Range {
	if minDate.After(maxDate) {
		minDate, maxDate = maxDate, minDate
	}

	return Range{min: minDate, max: maxDate}
}

// RangeFromYears returns the range from January 1st of minYear to December
// 31st of maxYear after passing both through YearBounds.
func RangeFromYears(minYear, maxYear int, firstWeekday time.Weekday) Range {
	minYear, maxYear = YearBounds(minYear, maxYear)

	return NewRange(
		New(minYear, time.January, 1, firstWeekday),
		New(maxYear, time.December, 31, firstWeekday),
	)
}

func (r Range) Min() Date { return r.min }
func (r Range) Max() Date { return r.max }

// Contains reports whether d lies within [min, max].
func (r Range) Contains(d Date) bool {
	return !d.Before(r.min) && !d.After(r.max)
}

// Clamp returns d moved into [min, max].
func (r Range) Clamp(d Date) Date {
	if d.Before(r.min) {
		return r.min
	}

	if d.After(r.max) {
		return r.max
	}

	return d
}

// WithSelected returns a copy of the range with d, clamped, as the selection.
func (r Range) WithSelected(d Date) Range {
	clamped := r.Clamp(d)
	r.selected = &clamped

	return r
}

// WithoutSelected returns a copy of the range with no selection.
func (r Range) WithoutSelected() Range {
	r.selected = nil
	return r
}

func (r Range) Selected() (Date, bool) {
	if r.selected == nil {
		return Date{}, false
	}

	return *r.selected, true
}

// Effective returns the selection, or today clamped into the range when
// nothing is selected. Today is never stored as the selection.
func (r Range) Effective(today Date) Date {
	if selected, ok := r.Selected(); ok {
		return selected
	}

	return r.Clamp(today)
}

// PageCount returns the number of months between min and max inclusive.
func (r Range) PageCount() int {
	return MonthsBetween(r.min.BeginOfMonth(), r.max)
}

// PageOf returns the zero based page index of the month containing d.
func (r Range) PageOf(d Date) (int, bool) {
	page := MonthsBetween(r.min.BeginOfMonth(), d.BeginOfMonth()) - 1
	if page < 0 || page >= r.PageCount() {
		return 0, false
	}

	return page, true
}

// MonthAt returns the first day of the month shown on the given page.
func (r Range) MonthAt(page int) (Date, bool) {
	if page < 0 || page >= r.PageCount() {
		return Date{}, false
	}

	return r.min.BeginOfMonth().AddMonths(page), true
}
