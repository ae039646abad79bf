package glance

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestCalendarWidget(t *testing.T, contents string) *calendarWidget {
	t.Helper()

	widget := &calendarWidget{
		now: func() time.Time {
			return time.Date(2020, time.March, 10, 12, 0, 0, 0, time.UTC)
		},
	}

	require.NoError(t, yaml.Unmarshal([]byte(contents), widget))
	widget.Type = "calendar"
	require.NoError(t, widget.initialize())

	return widget
}

func doCalendarRequest(t *testing.T, widget *calendarWidget, method, action, params string) *httptest.ResponseRecorder {
	t.Helper()

	target := "/api/widgets/1/" + action
	var body io.Reader

	if method == http.MethodGet {
		target += "?" + params
	} else {
		body = strings.NewReader(params)
	}

	request := httptest.NewRequest(method, target, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	request.SetPathValue("path", action)

	recorder := httptest.NewRecorder()
	widget.handleRequest(recorder, request)

	return recorder
}

const testCalendarConfig = `
timezone: UTC
first-day-of-week: monday
min-year: 2020
max-year: 2021
`

func TestCalendarWidgetStartsOnToday(t *testing.T) {
	widget := newTestCalendarWidget(t, testCalendarConfig)

	assert.Equal(t, "Calendar", widget.Title)
	assert.Equal(t, cacheTypeInfinite, widget.cacheType)
	assert.Equal(t, 2, widget.picker.Page())
	assert.Equal(t, 24, widget.picker.PageCount())

	html := string(widget.Render())
	assert.Contains(t, html, "March 2020")
	assert.Contains(t, html, "datepicker-day-today")
	assert.Contains(t, html, `<div class="datepicker-weekday">MON</div>`)
	assert.NotContains(t, html, "datepicker-day-selected")
}

func TestCalendarWidgetMonthNavigation(t *testing.T) {
	widget := newTestCalendarWidget(t, testCalendarConfig)

	tests := []struct {
		name      string
		params    string
		wantCode  int
		wantMonth string
	}{
		{name: "next", params: "go=next", wantCode: http.StatusOK, wantMonth: "2020-04"},
		{name: "previous", params: "go=previous", wantCode: http.StatusOK, wantMonth: "2020-03"},
		{name: "page", params: "page=0", wantCode: http.StatusOK, wantMonth: "2020-01"},
		{name: "previous at first page is ignored", params: "go=previous", wantCode: http.StatusOK, wantMonth: "2020-01"},
		{name: "page past the end is ignored", params: "page=24", wantCode: http.StatusOK, wantMonth: "2020-01"},
		{name: "negative page is ignored", params: "page=-1", wantCode: http.StatusOK, wantMonth: "2020-01"},
		{name: "month", params: "month=2021-05", wantCode: http.StatusOK, wantMonth: "2021-05"},
		{name: "month outside of range is ignored", params: "month=2022-01", wantCode: http.StatusOK, wantMonth: "2021-05"},
		{name: "invalid page", params: "page=abc", wantCode: http.StatusBadRequest, wantMonth: "2021-05"},
		{name: "invalid month", params: "month=May", wantCode: http.StatusBadRequest, wantMonth: "2021-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := doCalendarRequest(t, widget, http.MethodGet, "month", tt.params)

			assert.Equal(t, tt.wantCode, response.Code)
			assert.Equal(t, tt.wantMonth, widget.picker.CurrentMonth().MonthString())
		})
	}
}

func TestCalendarWidgetHeaderArrows(t *testing.T) {
	widget := newTestCalendarWidget(t, testCalendarConfig)

	response := doCalendarRequest(t, widget, http.MethodGet, "month", "page=0")
	assert.Contains(t, response.Body.String(), `aria-label="Previous month" disabled`)
	assert.NotContains(t, response.Body.String(), `aria-label="Next month" disabled`)

	response = doCalendarRequest(t, widget, http.MethodGet, "month", "page=23")
	assert.Contains(t, response.Body.String(), "December 2021")
	assert.Contains(t, response.Body.String(), `aria-label="Next month" disabled`)
	assert.NotContains(t, response.Body.String(), `aria-label="Previous month" disabled`)
}

func TestCalendarWidgetSelect(t *testing.T) {
	widget := newTestCalendarWidget(t, testCalendarConfig)

	response := doCalendarRequest(t, widget, http.MethodPost, "select", "date=2020-04-15")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "text/html; charset=utf-8", response.Header().Get("Content-Type"))

	selected, ok := widget.picker.Selected()
	require.True(t, ok)
	assert.Equal(t, "2020-04-15", selected.String())
	assert.Equal(t, "2020-04", widget.picker.CurrentMonth().MonthString(), "selecting moves to the month of the day")
	assert.Contains(t, response.Body.String(), `data-selected="2020-04-15"`)
	assert.Contains(t, response.Body.String(), "datepicker-day-selected")

	response = doCalendarRequest(t, widget, http.MethodPost, "select", "date=2019-12-31")
	assert.Equal(t, http.StatusOK, response.Code)
	selected, _ = widget.picker.Selected()
	assert.Equal(t, "2020-04-15", selected.String(), "days outside of the range are ignored")

	response = doCalendarRequest(t, widget, http.MethodPost, "select", "date=yesterday")
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestCalendarWidgetSelectCell(t *testing.T) {
	widget := newTestCalendarWidget(t, testCalendarConfig)

	// March 2020 starts on a Sunday, the last column of a Monday-first week
	response := doCalendarRequest(t, widget, http.MethodPost, "select", "cell=20")
	require.Equal(t, http.StatusOK, response.Code)

	selected, ok := widget.picker.Selected()
	require.True(t, ok)
	assert.Equal(t, "2020-03-15", selected.String())

	doCalendarRequest(t, widget, http.MethodPost, "select", "cell=0")
	selected, _ = widget.picker.Selected()
	assert.Equal(t, "2020-03-15", selected.String(), "empty cells cannot be selected")

	response = doCalendarRequest(t, widget, http.MethodPost, "select", "cell=x")
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestCalendarWidgetWheel(t *testing.T) {
	widget := newTestCalendarWidget(t, testCalendarConfig)

	response := doCalendarRequest(t, widget, http.MethodGet, "wheel", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.True(t, widget.picker.WheelVisible())
	assert.Contains(t, response.Body.String(), `<form class="datepicker-wheel"`)
	assert.Contains(t, response.Body.String(), `<option value="2" selected>March</option>`)
	assert.Contains(t, response.Body.String(), `<option value="1">2021</option>`)

	response = doCalendarRequest(t, widget, http.MethodPost, "wheel", "month=4&year=1")
	require.Equal(t, http.StatusOK, response.Code)
	assert.False(t, widget.picker.WheelVisible())
	assert.Equal(t, "2021-05", widget.picker.CurrentMonth().MonthString())
	assert.Contains(t, response.Body.String(), "May 2021")

	response = doCalendarRequest(t, widget, http.MethodPost, "wheel", "month=4")
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestCalendarWidgetWheelSnapsToRange(t *testing.T) {
	widget := newTestCalendarWidget(t, `
timezone: UTC
min-date: 2020-03-05
max-date: 2021-10-20
`)

	doCalendarRequest(t, widget, http.MethodGet, "wheel", "")
	html := string(widget.Render())
	assert.Contains(t, html, `<option value="0" class="datepicker-wheel-disabled">January</option>`)

	doCalendarRequest(t, widget, http.MethodPost, "wheel", "month=0&year=0")
	assert.Equal(t, "2020-03", widget.picker.CurrentMonth().MonthString())

	doCalendarRequest(t, widget, http.MethodPost, "wheel", "month=11&year=1")
	assert.Equal(t, "2021-10", widget.picker.CurrentMonth().MonthString())
}

func TestCalendarWidgetUnknownAction(t *testing.T) {
	widget := newTestCalendarWidget(t, testCalendarConfig)

	assert.Equal(t, http.StatusNotFound, doCalendarRequest(t, widget, http.MethodGet, "select", "date=2020-03-15").Code)
	assert.Equal(t, http.StatusNotFound, doCalendarRequest(t, widget, http.MethodGet, "events", "").Code)
}

func TestCalendarWidgetRange(t *testing.T) {
	tests := []struct {
		name         string
		config       string
		wantMin      string
		wantMax      string
		wantSelected string
		wantMonth    string
	}{
		{
			name:      "defaults to the full year range",
			config:    "timezone: UTC",
			wantMin:   "1900-01-01",
			wantMax:   "2100-12-31",
			wantMonth: "2020-03",
		},
		{
			name:      "years are clamped",
			config:    "{timezone: UTC, min-year: 1800, max-year: 2500}",
			wantMin:   "1900-01-01",
			wantMax:   "2100-12-31",
			wantMonth: "2020-03",
		},
		{
			name:      "reversed years are swapped",
			config:    "{timezone: UTC, min-year: 2021, max-year: 2019}",
			wantMin:   "2019-01-01",
			wantMax:   "2021-12-31",
			wantMonth: "2020-03",
		},
		{
			name:      "dates narrow the range",
			config:    "{timezone: UTC, min-date: 2020-03-05, max-date: 2020-05-20}",
			wantMin:   "2020-03-05",
			wantMax:   "2020-05-20",
			wantMonth: "2020-03",
		},
		{
			name:         "initial date is selected",
			config:       "{timezone: UTC, date: 2020-06-15}",
			wantMin:      "1900-01-01",
			wantMax:      "2100-12-31",
			wantSelected: "2020-06-15",
			wantMonth:    "2020-06",
		},
		{
			name:         "initial date is clamped into the range",
			config:       "{timezone: UTC, min-year: 2020, max-year: 2021, date: 2030-01-01}",
			wantMin:      "2020-01-01",
			wantMax:      "2021-12-31",
			wantSelected: "2021-12-31",
			wantMonth:    "2021-12",
		},
		{
			name:      "today outside of the range shows the nearest bound",
			config:    "{timezone: UTC, min-year: 2022, max-year: 2023}",
			wantMin:   "2022-01-01",
			wantMax:   "2023-12-31",
			wantMonth: "2022-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widget := newTestCalendarWidget(t, tt.config)
			r := widget.picker.Range()

			assert.Equal(t, tt.wantMin, r.Min().String())
			assert.Equal(t, tt.wantMax, r.Max().String())
			assert.Equal(t, tt.wantMonth, widget.picker.CurrentMonth().MonthString())

			selected, ok := widget.picker.Selected()
			if tt.wantSelected == "" {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.wantSelected, selected.String())
			}
		})
	}
}

func TestCalendarWidgetDisabledDays(t *testing.T) {
	widget := newTestCalendarWidget(t, "{timezone: UTC, min-date: 2020-03-05, max-date: 2020-05-20}")

	html := string(widget.Render())
	assert.Contains(t, html, `data-params="date=2020-03-04"`)
	assert.Contains(t, html, "datepicker-day-disabled")

	doCalendarRequest(t, widget, http.MethodPost, "select", "date=2020-03-04")
	_, ok := widget.picker.Selected()
	assert.False(t, ok)
}

func TestCalendarWidgetLocale(t *testing.T) {
	widget := newTestCalendarWidget(t, "{timezone: UTC, locale: de-DE}")

	html := string(widget.Render())
	assert.Contains(t, html, "März 2020")
	assert.Contains(t, html, `<div class="datepicker-weekday">MO</div>`)
	assert.Equal(t, time.Monday, widget.picker.Provider().FirstWeekday())

	widget = newTestCalendarWidget(t, "{timezone: UTC, locale: en-US}")
	assert.Equal(t, time.Sunday, widget.picker.Provider().FirstWeekday())

	widget = newTestCalendarWidget(t, "{timezone: UTC, locale: en-US, first-day-of-week: saturday}")
	assert.Equal(t, time.Saturday, widget.picker.Provider().FirstWeekday())
}

func TestCalendarWidgetHideToday(t *testing.T) {
	widget := newTestCalendarWidget(t, "{timezone: UTC, show-today: false}")

	assert.NotContains(t, string(widget.Render()), "datepicker-day-today")
}

func TestCalendarWidgetInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{name: "weekday", config: "first-day-of-week: someday", wantErr: "invalid day of week"},
		{name: "date", config: "date: 15/03/2020", wantErr: "expected format YYYY-MM-DD"},
		{name: "timezone", config: "timezone: Nowhere/Atlantis", wantErr: "invalid timezone"},
		{name: "locale", config: "locale: not a locale", wantErr: "invalid locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widget := &calendarWidget{}
			err := yaml.Unmarshal([]byte(tt.config), widget)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalendarWidgetEvents(t *testing.T) {
	server := newEventsServer(t)

	widget := newTestCalendarWidget(t, `
timezone: UTC
events:
  - url: `+server.URL+`/feed.ics
`)

	assert.Equal(t, cacheTypeDuration, widget.cacheType)
	assert.Equal(t, time.Hour, widget.cacheDuration)

	now := time.Now()
	assert.True(t, widget.requiresUpdate(&now))

	widget.update(context.Background())
	require.NoError(t, widget.Error)

	html := string(widget.Render())
	assert.Contains(t, html, "datepicker-day-has-events")
	assert.Contains(t, html, `aria-label="2020-03-15, 1 event"`)
	assert.Contains(t, html, `title="Standup"`)
	assert.False(t, widget.requiresUpdate(&now))
}

func TestCalendarWidgetEventsFailure(t *testing.T) {
	server := newEventsServer(t)

	widget := newTestCalendarWidget(t, `
timezone: UTC
events:
  - url: `+server.URL+`/broken
`)

	widget.update(context.Background())

	assert.ErrorIs(t, widget.Error, errNoContent)

	html := string(widget.Render())
	assert.Contains(t, html, "notice-icon-major")
	assert.Contains(t, html, "March 2020", "the picker still renders without events")
}
