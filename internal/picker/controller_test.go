package picker

import (
	"testing"
	"time"

	"github.com/glanceapp/datepicker/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func newTestController(t *testing.T) *Controller {
	t.Helper()

	provider := calendar.NewProvider(
		calendar.WithLocation(time.UTC),
		calendar.WithFirstWeekday(time.Monday),
	)

	return NewController(Options{
		Provider:  provider,
		Range:     calendar.RangeFromYears(2020, 2021, time.Monday),
		Today:     fixedClock(2020, time.March, 10),
		ShowToday: true,
	})
}

func TestControllerStartsOnToday(t *testing.T) {
	c := newTestController(t)

	assert.Equal(t, 2, c.Page())
	assert.Equal(t, "2020-03-01", c.CurrentMonth().String())

	_, ok := c.Selected()
	assert.False(t, ok, "today must not become the selection")
}

func TestControllerClampsTodayIntoRange(t *testing.T) {
	c := NewController(Options{
		Provider: calendar.NewProvider(calendar.WithLocation(time.UTC), calendar.WithFirstWeekday(time.Monday)),
		Range:    calendar.RangeFromYears(2020, 2021, time.Monday),
		Today:    fixedClock(2030, time.June, 1),
	})

	assert.Equal(t, 23, c.Page())
	assert.Equal(t, "2021-12-31", c.Effective().String())
}

func TestControllerNavigation(t *testing.T) {
	c := newTestController(t)

	var pages []int
	c.OnPage(func(e PageEvent) {
		pages = append(pages, e.Page)
		assert.Equal(t, 1, e.Month.Day())
	})

	require.True(t, c.Next())
	require.True(t, c.Previous())
	require.True(t, c.ShowPage(0))
	assert.False(t, c.Previous())
	assert.False(t, c.ShowPage(24))
	assert.False(t, c.ShowPage(-3))

	assert.Equal(t, []int{3, 2, 0}, pages)
	assert.Equal(t, 0, c.Page())

	require.True(t, c.ShowPage(23))
	assert.False(t, c.Next())
}

func TestControllerSelect(t *testing.T) {
	c := newTestController(t)

	var events []SelectEvent
	c.OnSelect(func(e SelectEvent) {
		events = append(events, e)
	})

	require.True(t, c.Select(calendar.New(2021, time.July, 4, time.Sunday)))
	assert.Equal(t, 18, c.Page())

	selected, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "2021-07-04", selected.String())
	assert.Equal(t, time.Monday, selected.FirstWeekday())

	assert.False(t, c.Select(calendar.New(2019, time.December, 31, time.Monday)))
	assert.False(t, c.Select(calendar.New(2022, time.January, 1, time.Monday)))

	require.True(t, c.Select(calendar.New(2021, time.July, 5, time.Monday)))

	require.Len(t, events, 2)
	assert.False(t, events[0].HadPrevious)
	assert.True(t, events[1].HadPrevious)
	assert.Equal(t, "2021-07-04", events[1].Previous.String())
	assert.Equal(t, "2021-07-05", events[1].Date.String())
}

func TestControllerSelectCell(t *testing.T) {
	c := NewController(Options{
		Provider: calendar.NewProvider(calendar.WithLocation(time.UTC), calendar.WithFirstWeekday(time.Monday)),
		Range:    calendar.RangeFromYears(2020, 2020, time.Monday),
		Today:    fixedClock(2020, time.January, 15),
	})

	assert.False(t, c.SelectCell(0))
	assert.False(t, c.SelectCell(33))

	require.True(t, c.SelectCell(2))
	selected, _ := c.Selected()
	assert.Equal(t, "2020-01-01", selected.String())

	require.True(t, c.SelectCell(32))
	selected, _ = c.Selected()
	assert.Equal(t, "2020-01-31", selected.String())
}

func TestControllerSetSelectedClamps(t *testing.T) {
	c := newTestController(t)

	before := time.Date(2010, time.May, 5, 0, 0, 0, 0, time.UTC)
	c.SetSelected(&before)

	selected, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "2020-01-01", selected.String())
	assert.Equal(t, 0, c.Page())

	c.SetSelected(nil)
	_, ok = c.Selected()
	assert.False(t, ok)
	assert.Equal(t, 2, c.Page())
}

func TestControllerSetRange(t *testing.T) {
	c := newTestController(t)
	require.True(t, c.Select(calendar.New(2021, time.August, 8, time.Monday)))

	c.SetRange(calendar.RangeFromYears(2020, 2020, time.Monday).WithSelected(calendar.New(2021, time.August, 8, time.Monday)))

	selected, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "2020-12-31", selected.String())
	assert.Equal(t, 11, c.Page())
	assert.Equal(t, 12, c.PageCount())
}

func TestControllerDefaultRange(t *testing.T) {
	c := NewController(Options{Today: fixedClock(2024, time.January, 1)})

	assert.Equal(t, calendar.MinYear, c.Range().Min().Year())
	assert.Equal(t, calendar.MaxYear, c.Range().Max().Year())
	assert.Equal(t, (calendar.MaxYear-calendar.MinYear+1)*12, c.PageCount())
}

func TestHeader(t *testing.T) {
	c := newTestController(t)

	header := c.Header()
	assert.Equal(t, "March 2020", header.Title)
	assert.True(t, header.CanPrevious)
	assert.True(t, header.CanNext)

	c.ShowPage(0)
	assert.False(t, c.Header().CanPrevious)

	c.ShowPage(23)
	assert.False(t, c.Header().CanNext)
	assert.Equal(t, "December 2021", c.Header().Title)
}

func TestHeaderUsesLocale(t *testing.T) {
	c := NewController(Options{
		Provider: calendar.NewProvider(calendar.WithLocale(language.German), calendar.WithLocation(time.UTC)),
		Range:    calendar.RangeFromYears(2020, 2020, time.Monday),
		Today:    fixedClock(2020, time.March, 1),
	})

	assert.Equal(t, "März 2020", c.Header().Title)
	assert.Equal(t, []string{"MO", "DI", "MI", "DO", "FR", "SA", "SO"}, c.Weekdays())
}

func TestWeekdaysFollowFirstWeekday(t *testing.T) {
	c := NewController(Options{
		Provider: calendar.NewProvider(calendar.WithFirstWeekday(time.Sunday)),
		Range:    calendar.RangeFromYears(2020, 2020, time.Sunday),
	})

	assert.Equal(t, []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}, c.Weekdays())
}

func TestMonthViewStates(t *testing.T) {
	c := NewController(Options{
		Provider: calendar.NewProvider(calendar.WithLocation(time.UTC), calendar.WithFirstWeekday(time.Monday)),
		Range: calendar.NewRange(
			calendar.New(2020, time.January, 10, time.Monday),
			calendar.New(2020, time.February, 20, time.Monday),
		),
		Today:     fixedClock(2020, time.January, 15),
		ShowToday: true,
	})

	require.True(t, c.Select(calendar.New(2020, time.January, 12, time.Monday)))

	view := c.Month()
	require.Len(t, view.Rows, 5)

	states := map[int]DayView{}
	for _, row := range view.Rows {
		for _, day := range row {
			states[day.Index] = day
		}
	}

	assert.Equal(t, CellNone, states[0].State)
	assert.Equal(t, "", states[0].Label)
	assert.Equal(t, CellDisabled, states[2].State)
	assert.Equal(t, "1", states[2].Label)
	assert.Equal(t, CellEnabled, states[11].State)
	assert.Equal(t, CellSelected, states[13].State)
	assert.True(t, states[16].Today)
	assert.False(t, states[15].Today)
	assert.Equal(t, CellNone, states[33].State)
}

func TestWheel(t *testing.T) {
	c := NewController(Options{
		Provider: calendar.NewProvider(calendar.WithLocation(time.UTC), calendar.WithFirstWeekday(time.Monday)),
		Range: calendar.NewRange(
			calendar.New(2020, time.March, 10, time.Monday),
			calendar.New(2022, time.October, 1, time.Monday),
		),
		Today: fixedClock(2020, time.May, 15),
	})

	c.ToggleWheel()
	wheel := c.Wheel()

	assert.True(t, wheel.Visible)
	require.Len(t, wheel.Years, 3)
	assert.Equal(t, "2020", wheel.Years[0].Label)
	assert.True(t, wheel.Years[0].Selected)
	assert.False(t, wheel.Months[1].Enabled)
	assert.True(t, wheel.Months[2].Enabled)
	assert.True(t, wheel.Months[4].Selected)

	require.True(t, c.PickMonthYear(0, 1))
	assert.Equal(t, "2021-01-01", c.CurrentMonth().String())

	require.True(t, c.PickMonthYear(0, 0))
	assert.Equal(t, "2020-03-01", c.CurrentMonth().String())
	assert.True(t, c.Wheel().Months[2].Selected)

	require.True(t, c.PickMonthYear(11, 2))
	assert.Equal(t, "2022-10-01", c.CurrentMonth().String())
	assert.False(t, c.Wheel().Months[11].Enabled)

	assert.False(t, c.PickMonthYear(12, 0))
	assert.False(t, c.PickMonthYear(0, 3))

	c.ToggleWheel()
	assert.False(t, c.Wheel().Visible)
}
