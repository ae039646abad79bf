package glance

import (
	"context"
	"html/template"
	"time"

	"github.com/glanceapp/datepicker/internal/calendar"
)

var oldCalendarWidgetTemplate = mustParseTemplate("old-calendar.html", "widget-base.html")

const oldCalendarWeeks = 3

type oldCalendarWidget struct {
	widgetBase     `yaml:",inline"`
	FirstDayOfWeek weekdayField  `yaml:"first-day-of-week"`
	Locale         localeField   `yaml:"locale"`
	Timezone       locationField `yaml:"timezone"`
	Calendar       *weekStrip    `yaml:"-"`

	provider calendar.Provider
	now      func() time.Time
}

func (widget *oldCalendarWidget) initialize() error {
	widget.withTitle("Calendar").withCacheOnTheHour()

	if widget.now == nil {
		widget.now = time.Now
	}

	widget.provider = newCalendarProvider(widget.Locale, widget.Timezone.Location, widget.FirstDayOfWeek)

	return nil
}

func (widget *oldCalendarWidget) update(ctx context.Context) {
	widget.Calendar = newWeekStrip(widget.now(), widget.provider)
	widget.withError(nil).scheduleNextUpdate()
}

func (widget *oldCalendarWidget) Render() template.HTML {
	return widget.renderTemplate(widget, oldCalendarWidgetTemplate)
}

type weekStripDay struct {
	Day     int
	IsToday bool
	InMonth bool
}

// weekStrip shows the previous, current and next week around today.
type weekStrip struct {
	CurrentDay        int
	CurrentWeekNumber int
	CurrentMonthName  string
	CurrentYear       int
	Weekdays          []string
	Days              []weekStripDay
}

func newWeekStrip(now time.Time, provider calendar.Provider) *weekStrip {
	today := calendar.FromTime(now, provider)
	grid := calendar.NewGrid(today)

	index, _ := grid.IndexOf(today)
	start := today.Day() - index%calendar.DaysInWeek - calendar.DaysInWeek

	days := make([]weekStripDay, oldCalendarWeeks*calendar.DaysInWeek)

	for i := range days {
		day := calendar.New(today.Year(), today.Month(), start+i, provider.FirstWeekday())

		days[i] = weekStripDay{
			Day:     day.Day(),
			IsToday: day.Equal(today),
			InMonth: day.SameMonth(today),
		}
	}

	weekdays := make([]string, calendar.DaysInWeek)
	for i := range weekdays {
		weekday := (provider.FirstWeekday() + time.Weekday(i)) % 7

		if namer, ok := provider.(calendar.ShortWeekdayNamer); ok {
			weekdays[i] = namer.ShortWeekdayName(weekday)
		} else {
			weekdays[i] = provider.WeekdayName(weekday)
		}
	}

	_, week := today.Time(time.UTC).ISOWeek()

	return &weekStrip{
		CurrentDay:        today.Day(),
		CurrentWeekNumber: week,
		CurrentMonthName:  provider.MonthName(today.Month()),
		CurrentYear:       today.Year(),
		Weekdays:          weekdays,
		Days:              days,
	}
}
