package glance

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/glanceapp/datepicker/internal/calendar"
	"github.com/glanceapp/datepicker/internal/picker"
	"golang.org/x/text/language"
)

var calendarWidgetTemplate = mustParseTemplate("calendar.html", "widget-base.html")

const defaultCalendarFirstDayOfWeek = time.Monday

type calendarWidget struct {
	widgetBase     `yaml:",inline"`
	FirstDayOfWeek weekdayField          `yaml:"first-day-of-week"`
	Locale         localeField           `yaml:"locale"`
	Timezone       locationField         `yaml:"timezone"`
	MinYear        int                   `yaml:"min-year"`
	MaxYear        int                   `yaml:"max-year"`
	MinDate        *dateField            `yaml:"min-date"`
	MaxDate        *dateField            `yaml:"max-date"`
	Date           *dateField            `yaml:"date"`
	ShowToday      *bool                 `yaml:"show-today"`
	Events         []calendarEventSource `yaml:"events"`

	mu          sync.Mutex
	location    *time.Location
	picker      *picker.Controller
	eventsByDay calendarEventsByDay
	now         func() time.Time
}

func (widget *calendarWidget) initialize() error {
	widget.withTitle("Calendar").withError(nil)

	if widget.now == nil {
		widget.now = time.Now
	}

	widget.location = time.Local
	if widget.Timezone.Location != nil {
		widget.location = widget.Timezone.Location
	}

	for i := range widget.Events {
		if err := widget.Events[i].initialize(); err != nil {
			return err
		}
	}

	if len(widget.Events) > 0 {
		widget.withCacheDuration(time.Hour)
	} else {
		widget.cacheType = cacheTypeInfinite
	}

	provider := newCalendarProvider(widget.Locale, widget.location, widget.FirstDayOfWeek)

	widget.picker = picker.NewController(picker.Options{
		Provider:  provider,
		Range:     widget.selectableRange(provider.FirstWeekday()),
		Today:     widget.now,
		ShowToday: widget.ShowToday == nil || *widget.ShowToday,
	})

	widget.picker.OnSelect(func(e picker.SelectEvent) {
		slog.Info("Calendar date selected", "widget", widget.ID, "date", e.Date.String())
	})

	return nil
}

// newCalendarProvider prefers an explicit first day of week, then the one of
// the configured locale and finally the default.
func newCalendarProvider(locale localeField, location *time.Location, firstDayOfWeek weekdayField) calendar.Provider {
	options := []calendar.ProviderOption{
		calendar.WithLocale(locale.Tag),
		calendar.WithLocation(location),
	}

	if firstDayOfWeek.Set {
		options = append(options, calendar.WithFirstWeekday(firstDayOfWeek.Weekday))
	} else if locale.Tag == language.Und {
		options = append(options, calendar.WithFirstWeekday(defaultCalendarFirstDayOfWeek))
	}

	return calendar.NewProvider(options...)
}

// selectableRange builds the range from the year bounds, narrowed by the
// optional min and max dates, with the optional initial date selected.
func (widget *calendarWidget) selectableRange(firstDayOfWeek time.Weekday) calendar.Range {
	minYear, maxYear := widget.MinYear, widget.MaxYear
	if minYear == 0 {
		minYear = calendar.MinYear
	}

	if maxYear == 0 {
		maxYear = calendar.MaxYear
	}

	years := calendar.RangeFromYears(minYear, maxYear, firstDayOfWeek)
	minDate, maxDate := years.Min(), years.Max()

	if widget.MinDate != nil {
		minDate = years.Clamp(widget.MinDate.toDate(firstDayOfWeek))
	}

	if widget.MaxDate != nil {
		maxDate = years.Clamp(widget.MaxDate.toDate(firstDayOfWeek))
	}

	r := calendar.NewRange(minDate, maxDate)

	if widget.Date != nil {
		r = r.WithSelected(widget.Date.toDate(firstDayOfWeek))
	}

	return r
}

func (d *dateField) toDate(firstDayOfWeek time.Weekday) calendar.Date {
	return calendar.New(d.Year, d.Month, d.Day, firstDayOfWeek)
}

func (widget *calendarWidget) update(ctx context.Context) {
	if len(widget.Events) == 0 {
		return
	}

	events, err := fetchCalendarEvents(ctx, defaultHTTPClient, widget.Events, widget.location)

	widget.mu.Lock()
	defer widget.mu.Unlock()

	if !widget.canContinueUpdateAfterHandlingErr(err) {
		return
	}

	widget.eventsByDay = events
}

type calendarDayTemplateData struct {
	picker.DayView
	Key         string
	EventCount  int
	EventTitles string
}

type calendarTemplateData struct {
	*calendarWidget
	Header   picker.Header
	Weekdays []string
	Rows     [][]calendarDayTemplateData
	Wheel    picker.Wheel
	Page     int
	Pages    int
	Selected string
	Month    string
}

func (widget *calendarWidget) templateData() *calendarTemplateData {
	view := widget.picker.Month()

	data := &calendarTemplateData{
		calendarWidget: widget,
		Header:         widget.picker.Header(),
		Weekdays:       widget.picker.Weekdays(),
		Rows:           make([][]calendarDayTemplateData, len(view.Rows)),
		Wheel:          widget.picker.Wheel(),
		Page:           view.Page,
		Pages:          widget.picker.PageCount(),
		Month:          view.Month.MonthString(),
	}

	if selected, ok := widget.picker.Selected(); ok {
		data.Selected = selected.String()
	}

	for r, row := range view.Rows {
		data.Rows[r] = make([]calendarDayTemplateData, len(row))

		for c, day := range row {
			cell := calendarDayTemplateData{DayView: day}

			if !day.Empty {
				cell.Key = day.Date.String()
				cell.EventCount = len(widget.eventsByDay[cell.Key])
				cell.EventTitles = widget.eventsByDay.titles(cell.Key)
			}

			data.Rows[r][c] = cell
		}
	}

	return data
}

func (widget *calendarWidget) Render() template.HTML {
	widget.mu.Lock()
	defer widget.mu.Unlock()

	return widget.renderTemplate(widget.templateData(), calendarWidgetTemplate)
}

var errInvalidCalendarRequest = errors.New("invalid calendar request")

// handleRequest applies a picker action and responds with the re-rendered
// widget. Requests for pages outside the range leave the widget unchanged.
func (widget *calendarWidget) handleRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := func() error {
		widget.mu.Lock()
		defer widget.mu.Unlock()

		return widget.applyAction(r.Method, r.PathValue("path"), r.Form.Get)
	}()

	if errors.Is(err, errInvalidCalendarRequest) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(widget.Render()))
}

func (widget *calendarWidget) applyAction(method, action string, param func(string) string) error {
	firstDayOfWeek := widget.picker.Provider().FirstWeekday()

	switch {
	case action == "month" && method == http.MethodGet:
		switch {
		case param("page") != "":
			page, err := strconv.Atoi(param("page"))
			if err != nil {
				return fmt.Errorf("%w: page must be a number", errInvalidCalendarRequest)
			}
			widget.picker.ShowPage(page)
		case param("month") != "":
			month, err := calendar.ParseMonth(param("month"), firstDayOfWeek)
			if err != nil {
				return fmt.Errorf("%w: %v", errInvalidCalendarRequest, err)
			}
			widget.picker.ShowMonth(month)
		case param("go") == "next":
			widget.picker.Next()
		case param("go") == "previous":
			widget.picker.Previous()
		}

		return nil

	case action == "select" && method == http.MethodPost:
		if param("cell") != "" {
			cell, err := strconv.Atoi(param("cell"))
			if err != nil {
				return fmt.Errorf("%w: cell must be a number", errInvalidCalendarRequest)
			}
			widget.picker.SelectCell(cell)
			return nil
		}

		date, err := calendar.ParseDate(param("date"), firstDayOfWeek)
		if err != nil {
			return fmt.Errorf("%w: %v", errInvalidCalendarRequest, err)
		}
		widget.picker.Select(date)

		return nil

	case action == "wheel" && method == http.MethodGet:
		widget.picker.ToggleWheel()
		return nil

	case action == "wheel" && method == http.MethodPost:
		monthRow, err := strconv.Atoi(param("month"))
		if err != nil {
			return fmt.Errorf("%w: month must be a number", errInvalidCalendarRequest)
		}

		yearRow, err := strconv.Atoi(param("year"))
		if err != nil {
			return fmt.Errorf("%w: year must be a number", errInvalidCalendarRequest)
		}

		widget.picker.PickMonthYear(monthRow, yearRow)
		widget.picker.ShowWheel(false)

		return nil
	}

	return fmt.Errorf("unknown calendar action: %s %s", method, action)
}
