package glance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	ics "github.com/arran4/golang-ical"
	"github.com/mmcdole/gofeed"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	eventSourceICS  = "ics"
	eventSourceJSON = "json"
	eventSourceRSS  = "rss"
)

const maxConcurrentEventSources = 5

const icsDateLayout = "20060102"

type calendarEvent struct {
	Day   string
	Time  time.Time
	Title string
}

type calendarEventSource struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Name    string            `yaml:"name"`
	Headers map[string]string `yaml:"headers"`
	Items   string            `yaml:"items"`
	Date    string            `yaml:"date"`
	Title   string            `yaml:"title"`
	Limit   int               `yaml:"limit"`
}

func (s *calendarEventSource) initialize() error {
	if s.URL == "" {
		return errors.New("event source url is required")
	}

	s.Type = strings.ToLower(s.Type)

	switch s.Type {
	case "":
		s.Type = eventSourceICS
	case eventSourceICS, eventSourceRSS:
	case eventSourceJSON:
		if s.Date == "" {
			return fmt.Errorf("json event source %s requires a date path", s.URL)
		}
	default:
		return fmt.Errorf("unknown event source type: %s", s.Type)
	}

	if s.Name == "" {
		s.Name = s.URL
	}

	return nil
}

// calendarEventsByDay groups events under their YYYY-MM-DD day.
type calendarEventsByDay map[string][]calendarEvent

func (e calendarEventsByDay) titles(day string) string {
	events := e[day]
	titles := make([]string, 0, len(events))

	for i := range events {
		if events[i].Title != "" {
			titles = append(titles, events[i].Title)
		}
	}

	return strings.Join(titles, "\n")
}

func fetchCalendarEvents(ctx context.Context, client requestDoer, sources []calendarEventSource, location *time.Location) (calendarEventsByDay, error) {
	results := make([][]calendarEvent, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	g.SetLimit(maxConcurrentEventSources)

	for i := range sources {
		g.Go(func() error {
			results[i], errs[i] = fetchEventsFromSource(ctx, client, &sources[i], location)
			return nil
		})
	}

	_ = g.Wait()

	byDay := make(calendarEventsByDay)
	failed := 0

	for i := range sources {
		if errs[i] != nil {
			failed++
			slog.Error("Failed to fetch calendar events", "source", sources[i].Name, "error", errs[i])
			continue
		}

		for _, event := range results[i] {
			byDay[event.Day] = append(byDay[event.Day], event)
		}
	}

	for day := range byDay {
		sort.SliceStable(byDay[day], func(a, b int) bool {
			return byDay[day][a].Time.Before(byDay[day][b].Time)
		})
	}

	if failed == len(sources) && failed > 0 {
		return nil, errNoContent
	}

	if failed > 0 {
		return byDay, fmt.Errorf("%w: could not fetch %d event sources", errPartialContent, failed)
	}

	return byDay, nil
}

func fetchEventsFromSource(ctx context.Context, client requestDoer, source *calendarEventSource, location *time.Location) ([]calendarEvent, error) {
	body, err := fetchBodyFromURL(ctx, client, source.URL, source.Headers)
	if err != nil {
		return nil, err
	}

	var events []calendarEvent

	switch source.Type {
	case eventSourceJSON:
		events, err = parseJSONEvents(body, source, location)
	case eventSourceRSS:
		events, err = parseRSSEvents(body, source, location)
	default:
		events, err = parseICSEvents(body, source, location)
	}

	if err != nil {
		return nil, fmt.Errorf("parsing %s events from %s: %w", source.Type, source.URL, err)
	}

	// Limit keeps the earliest events, not the first ones of the feed.
	sort.SliceStable(events, func(a, b int) bool {
		return events[a].Time.Before(events[b].Time)
	})

	if source.Limit > 0 && len(events) > source.Limit {
		events = events[:source.Limit]
	}

	return events, nil
}

func newCalendarEvent(at time.Time, title string, source *calendarEventSource, location *time.Location) calendarEvent {
	at = at.In(location)

	return calendarEvent{
		Day:   at.Format(dateFieldLayout),
		Time:  at,
		Title: strings.TrimSpace(title),
	}
}

func parseICSEvents(body []byte, source *calendarEventSource, location *time.Location) ([]calendarEvent, error) {
	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	vevents := cal.Events()
	events := make([]calendarEvent, 0, len(vevents))

	for _, vevent := range vevents {
		dtstart := vevent.GetProperty(ics.ComponentPropertyDtStart)
		if dtstart == nil {
			continue
		}

		var start time.Time

		if len(dtstart.Value) == len(icsDateLayout) {
			// all day events carry a date without a time or zone
			start, err = time.ParseInLocation(icsDateLayout, dtstart.Value, location)
		} else {
			start, err = vevent.GetStartAt()
		}

		if err != nil {
			slog.Debug("Skipping event with unparsable start", "source", source.Name, "dtstart", dtstart.Value)
			continue
		}

		title := ""
		if summary := vevent.GetProperty(ics.ComponentPropertySummary); summary != nil {
			title = summary.Value
		}

		events = append(events, newCalendarEvent(start, title, source, location))
	}

	return events, nil
}

func parseJSONEvents(body []byte, source *calendarEventSource, location *time.Location) ([]calendarEvent, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}

	parsed := gjson.ParseBytes(body)
	if source.Items != "" {
		parsed = parsed.Get(source.Items)
	}

	if !parsed.IsArray() {
		return nil, fmt.Errorf("items path %q did not resolve to an array", source.Items)
	}

	items := parsed.Array()
	events := make([]calendarEvent, 0, len(items))

	for _, item := range items {
		value := item.Get(source.Date).String()
		if value == "" {
			continue
		}

		at, err := dateparse.ParseIn(value, location)
		if err != nil {
			slog.Debug("Skipping event with unparsable date", "source", source.Name, "date", value)
			continue
		}

		title := ""
		if source.Title != "" {
			title = item.Get(source.Title).String()
		}

		events = append(events, newCalendarEvent(at, title, source, location))
	}

	return events, nil
}

func parseRSSEvents(body []byte, source *calendarEventSource, location *time.Location) ([]calendarEvent, error) {
	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, err
	}

	events := make([]calendarEvent, 0, len(feed.Items))

	for _, item := range feed.Items {
		var at *time.Time

		if item.PublishedParsed != nil {
			at = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			at = item.UpdatedParsed
		} else {
			continue
		}

		events = append(events, newCalendarEvent(*at, item.Title, source, location))
	}

	return events, nil
}
