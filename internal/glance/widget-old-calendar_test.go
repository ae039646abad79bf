package glance

import (
	"context"
	"testing"
	"time"

	"github.com/glanceapp/datepicker/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeekStrip(t *testing.T) {
	tests := []struct {
		name         string
		now          time.Time
		firstWeekday time.Weekday
		wantDays     []int
		wantWeekdays []string
		wantToday    int
		wantWeek     int
	}{
		{
			name:         "monday first",
			now:          time.Date(2020, time.March, 10, 12, 0, 0, 0, time.UTC),
			firstWeekday: time.Monday,
			wantDays:     []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22},
			wantWeekdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			wantToday:    8,
			wantWeek:     11,
		},
		{
			name:         "sunday first across a month boundary",
			now:          time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC),
			firstWeekday: time.Sunday,
			wantDays:     []int{23, 24, 25, 26, 27, 28, 29, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
			wantWeekdays: []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
			wantToday:    7,
			wantWeek:     9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := calendar.NewProvider(
				calendar.WithLocation(time.UTC),
				calendar.WithFirstWeekday(tt.firstWeekday),
			)

			strip := newWeekStrip(tt.now, provider)
			require.Len(t, strip.Days, oldCalendarWeeks*calendar.DaysInWeek)

			days := make([]int, len(strip.Days))
			for i, day := range strip.Days {
				days[i] = day.Day

				assert.Equal(t, i == tt.wantToday, day.IsToday, "day %d", i)
			}

			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantWeekdays, strip.Weekdays)
			assert.Equal(t, tt.wantWeek, strip.CurrentWeekNumber)
			assert.Equal(t, "March", strip.CurrentMonthName)
			assert.Equal(t, 2020, strip.CurrentYear)
		})
	}
}

func TestNewWeekStripMarksOtherMonths(t *testing.T) {
	provider := calendar.NewProvider(calendar.WithLocation(time.UTC), calendar.WithFirstWeekday(time.Sunday))
	strip := newWeekStrip(time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC), provider)

	for i, day := range strip.Days {
		assert.Equal(t, i >= 7, day.InMonth, "day %d", i)
	}
}

func TestOldCalendarWidget(t *testing.T) {
	widget := &oldCalendarWidget{
		now: func() time.Time {
			return time.Date(2020, time.March, 10, 12, 0, 0, 0, time.UTC)
		},
	}
	widget.Type = "calendar-legacy"
	widget.Timezone.Location = time.UTC
	require.NoError(t, widget.initialize())

	assert.Equal(t, cacheTypeOnTheHour, widget.cacheType)

	now := time.Now()
	require.True(t, widget.requiresUpdate(&now))
	widget.update(context.Background())

	html := string(widget.Render())
	assert.Contains(t, html, "Week 11")
	assert.Contains(t, html, `<div class="calendar-day calendar-day-today">10</div>`)
	assert.Contains(t, html, `<div class="calendar-day">Mon</div>`)
}
