package picker

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/glanceapp/datepicker/internal/calendar"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type CellState uint8

const (
	CellNone CellState = iota
	CellDisabled
	CellEnabled
	CellSelected
)

func (s CellState) String() string {
	switch s {
	case CellDisabled:
		return "disabled"
	case CellEnabled:
		return "enabled"
	case CellSelected:
		return "selected"
	default:
		return "none"
	}
}

type Header struct {
	Title       string
	Month       calendar.Date
	CanPrevious bool
	CanNext     bool
}

type DayView struct {
	calendar.Cell
	State CellState
	Today bool
	Label string
}

type MonthView struct {
	Page  int
	Month calendar.Date
	Rows  [][]DayView
}

type WheelRow struct {
	Index    int
	Label    string
	Enabled  bool
	Selected bool
}

type Wheel struct {
	Visible bool
	Months  []WheelRow
	Years   []WheelRow
}

// Header returns the title of the current page and whether the previous and
// next months can be reached.
func (c *Controller) Header() Header {
	month := c.CurrentMonth()

	return Header{
		Title:       c.provider.MonthName(month.Month()) + " " + strconv.Itoa(month.Year()),
		Month:       month,
		CanPrevious: !month.SameMonth(c.rng.Min()),
		CanNext:     !month.SameMonth(c.rng.Max()),
	}
}

const shortWeekdayLength = 3

// Weekdays returns the column labels of the month grid, starting at the
// provider's first weekday.
func (c *Controller) Weekdays() []string {
	upper := cases.Upper(language.Und)
	first := c.provider.FirstWeekday()
	labels := make([]string, calendar.DaysInWeek)

	for i := range labels {
		labels[i] = upper.String(shortWeekdayName(c.provider, (first+time.Weekday(i))%7))
	}

	return labels
}

func shortWeekdayName(p calendar.Provider, d time.Weekday) string {
	if namer, ok := p.(calendar.ShortWeekdayNamer); ok {
		return namer.ShortWeekdayName(d)
	}

	name := p.WeekdayName(d)
	if utf8.RuneCountInString(name) <= shortWeekdayLength {
		return name
	}

	return string([]rune(name)[:shortWeekdayLength])
}

// Month returns the grid of the current page with the state of every cell.
func (c *Controller) Month() MonthView {
	return c.MonthAt(c.page)
}

// MonthAt returns the grid of any page without moving to it.
func (c *Controller) MonthAt(page int) MonthView {
	month, ok := c.rng.MonthAt(page)
	if !ok {
		month = c.CurrentMonth()
		page = c.page
	}

	grid := calendar.NewGrid(month)
	selected, hasSelected := c.rng.Selected()
	today := c.Today()

	view := MonthView{
		Page:  page,
		Month: grid.Month,
		Rows:  make([][]DayView, 0, month.WeekRows()),
	}

	for _, row := range grid.Rows() {
		days := make([]DayView, len(row))

		for i, cell := range row {
			day := DayView{Cell: cell}

			switch {
			case cell.Empty:
				day.State = CellNone
			case !c.rng.Contains(cell.Date):
				day.State = CellDisabled
			case hasSelected && cell.Date.Equal(selected):
				day.State = CellSelected
			default:
				day.State = CellEnabled
			}

			if !cell.Empty {
				day.Label = strconv.Itoa(cell.Day())
				day.Today = c.showToday && cell.Date.Equal(today)
			}

			days[i] = day
		}

		view.Rows = append(view.Rows, days)
	}

	return view
}

// Wheel returns the rows of the month/year wheel. Months that fall outside
// the range in the currently selected year are disabled.
func (c *Controller) Wheel() Wheel {
	minDate := c.rng.Min()
	maxDate := c.rng.Max()
	years := maxDate.Year() - minDate.Year() + 1

	wheel := Wheel{
		Visible: c.wheelVisible,
		Months:  make([]WheelRow, 12),
		Years:   make([]WheelRow, years),
	}

	year := minDate.Year() + c.wheelYear
	minMonth := minDate.BeginOfMonth()
	maxMonth := maxDate.BeginOfMonth()

	for i := range wheel.Months {
		month := calendar.New(year, time.Month(i+1), 1, minDate.FirstWeekday())

		wheel.Months[i] = WheelRow{
			Index:    i,
			Label:    c.provider.MonthName(time.Month(i + 1)),
			Enabled:  !month.Before(minMonth) && !month.After(maxMonth),
			Selected: i == c.wheelMonth,
		}
	}

	for i := range wheel.Years {
		wheel.Years[i] = WheelRow{
			Index:    i,
			Label:    strconv.Itoa(minDate.Year() + i),
			Enabled:  true,
			Selected: i == c.wheelYear,
		}
	}

	return wheel
}
