// Package picker holds the presentation state of a date picker: the month
// page being shown, the selected day, and the month/year wheel. It owns the
// calendar range and tells registered listeners about changes directly,
// synchronously and in registration order.
package picker

import (
	"time"

	"github.com/glanceapp/datepicker/internal/calendar"
)

type SelectEvent struct {
	Date        calendar.Date
	Previous    calendar.Date
	HadPrevious bool
}

type PageEvent struct {
	Page  int
	Month calendar.Date
}

type Options struct {
	Provider  calendar.Provider
	Range     calendar.Range
	Today     func() time.Time
	ShowToday bool
}

// Controller is not safe for concurrent use; callers serialize access the
// way a UI thread would.
type Controller struct {
	provider  calendar.Provider
	rng       calendar.Range
	today     func() time.Time
	showToday bool

	page         int
	wheelVisible bool
	wheelMonth   int
	wheelYear    int

	selectListeners []func(SelectEvent)
	pageListeners   []func(PageEvent)
}

func NewController(options Options) *Controller {
	if options.Provider == nil {
		options.Provider = calendar.NewProvider()
	}

	if options.Today == nil {
		options.Today = time.Now
	}

	c := &Controller{
		provider:  options.Provider,
		today:     options.Today,
		showToday: options.ShowToday,
	}

	c.setRange(options.Range)

	return c
}

func (c *Controller) OnSelect(listener func(SelectEvent)) {
	c.selectListeners = append(c.selectListeners, listener)
}

func (c *Controller) OnPage(listener func(PageEvent)) {
	c.pageListeners = append(c.pageListeners, listener)
}

func (c *Controller) Provider() calendar.Provider { return c.provider }
func (c *Controller) Range() calendar.Range       { return c.rng }
func (c *Controller) Page() int                   { return c.page }
func (c *Controller) PageCount() int              { return c.rng.PageCount() }
func (c *Controller) WheelVisible() bool          { return c.wheelVisible }

// Today returns the current day according to the controller's clock and
// provider.
func (c *Controller) Today() calendar.Date {
	return calendar.FromTime(c.today(), c.provider)
}

func (c *Controller) Selected() (calendar.Date, bool) {
	return c.rng.Selected()
}

// Effective returns the selection or, without one, today clamped to the range.
func (c *Controller) Effective() calendar.Date {
	return c.rng.Effective(c.Today())
}

// CurrentMonth returns the first day of the month on the current page.
func (c *Controller) CurrentMonth() calendar.Date {
	month, ok := c.rng.MonthAt(c.page)
	if !ok {
		return c.rng.Min().BeginOfMonth()
	}

	return month
}

// SetRange replaces the selectable range. The selection is clamped into the
// new range and the page follows it.
func (c *Controller) SetRange(r calendar.Range) {
	c.setRange(r)
}

func (c *Controller) setRange(r calendar.Range) {
	firstWeekday := c.provider.FirstWeekday()

	if r.Min().IsZero() && r.Max().IsZero() {
		r = calendar.RangeFromYears(calendar.MinYear, calendar.MaxYear, firstWeekday)
	}

	normalized := calendar.NewRange(
		r.Min().WithFirstWeekday(firstWeekday),
		r.Max().WithFirstWeekday(firstWeekday),
	)

	if selected, ok := r.Selected(); ok {
		normalized = normalized.WithSelected(selected.WithFirstWeekday(firstWeekday))
	}

	c.rng = normalized
	c.page = 0
	c.showEffective()
}

// SetSelected sets the selection on behalf of the host, clamping it into the
// range. A nil time clears the selection. Listeners are not notified.
func (c *Controller) SetSelected(t *time.Time) {
	if t == nil {
		c.rng = c.rng.WithoutSelected()
	} else {
		c.rng = c.rng.WithSelected(calendar.FromTime(*t, c.provider))
	}

	c.showEffective()
}

func (c *Controller) showEffective() {
	page, ok := c.rng.PageOf(c.Effective())
	if !ok {
		page = 0
	}

	c.page = page
	c.syncWheel()
}

// ShowPage moves to the given page. Pages outside the range are ignored.
func (c *Controller) ShowPage(page int) bool {
	month, ok := c.rng.MonthAt(page)
	if !ok {
		return false
	}

	c.page = page
	c.syncWheel()

	for _, listener := range c.pageListeners {
		listener(PageEvent{Page: page, Month: month})
	}

	return true
}

// ShowMonth moves to the page containing d.
func (c *Controller) ShowMonth(d calendar.Date) bool {
	page, ok := c.rng.PageOf(d)
	if !ok {
		return false
	}

	return c.ShowPage(page)
}

func (c *Controller) Next() bool     { return c.ShowPage(c.page + 1) }
func (c *Controller) Previous() bool { return c.ShowPage(c.page - 1) }

// Select makes d the selection. Days outside the range are rejected.
func (c *Controller) Select(d calendar.Date) bool {
	d = d.WithFirstWeekday(c.provider.FirstWeekday())

	if !c.rng.Contains(d) {
		return false
	}

	previous, hadPrevious := c.rng.Selected()
	c.rng = c.rng.WithSelected(d)
	c.ShowMonth(d)

	event := SelectEvent{Date: d, Previous: previous, HadPrevious: hadPrevious}
	for _, listener := range c.selectListeners {
		listener(event)
	}

	return true
}

// SelectCell selects the day shown at the given cell of the current page.
func (c *Controller) SelectCell(index int) bool {
	d, ok := calendar.NewGrid(c.CurrentMonth()).DateAt(index)
	if !ok {
		return false
	}

	return c.Select(d)
}

func (c *Controller) ToggleWheel() {
	c.ShowWheel(!c.wheelVisible)
}

// ShowWheel shows or hides the month/year wheel. Showing it lines the wheel
// up with the current page.
func (c *Controller) ShowWheel(visible bool) {
	c.wheelVisible = visible

	if visible {
		c.syncWheel()
	}
}

func (c *Controller) syncWheel() {
	month := c.CurrentMonth()
	c.wheelMonth = int(month.Month()) - 1
	c.wheelYear = month.Year() - c.rng.Min().Year()
}

// PickMonthYear handles a change of the wheel rows. Months outside the range
// snap to the first or last selectable month. Rows that do not exist are
// ignored.
func (c *Controller) PickMonthYear(monthRow, yearRow int) bool {
	years := c.rng.Max().Year() - c.rng.Min().Year() + 1
	if monthRow < 0 || monthRow > 11 || yearRow < 0 || yearRow >= years {
		return false
	}

	minMonth := c.rng.Min().BeginOfMonth()
	maxMonth := c.rng.Max().BeginOfMonth()

	target := calendar.New(minMonth.Year()+yearRow, time.Month(monthRow+1), 1, c.provider.FirstWeekday())

	if target.Before(minMonth) {
		target = minMonth
	} else if target.After(maxMonth) {
		target = maxMonth
	}

	ok := c.ShowMonth(target)
	c.syncWheel()

	return ok
}
