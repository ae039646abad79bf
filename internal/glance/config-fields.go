package glance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var durationFieldPattern = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

type durationField time.Duration

func (d *durationField) UnmarshalYAML(node *yaml.Node) error {
	var value string

	if err := node.Decode(&value); err != nil {
		return err
	}

	matches := durationFieldPattern.FindStringSubmatch(value)

	if len(matches) != 3 {
		return fmt.Errorf("invalid duration format: %s", value)
	}

	duration, err := strconv.Atoi(matches[1])
	if err != nil {
		return err
	}

	switch matches[2] {
	case "s":
		*d = durationField(time.Duration(duration) * time.Second)
	case "m":
		*d = durationField(time.Duration(duration) * time.Minute)
	case "h":
		*d = durationField(time.Duration(duration) * time.Hour)
	case "d":
		*d = durationField(time.Duration(duration) * 24 * time.Hour)
	}

	return nil
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type weekdayField struct {
	Weekday time.Weekday
	Set     bool
}

func (w *weekdayField) UnmarshalYAML(node *yaml.Node) error {
	var value string

	if err := node.Decode(&value); err != nil {
		return err
	}

	if value == "" {
		return nil
	}

	weekday, ok := weekdaysByName[strings.ToLower(value)]
	if !ok {
		return fmt.Errorf("invalid day of week: %s", value)
	}

	w.Weekday = weekday
	w.Set = true

	return nil
}

const dateFieldLayout = "2006-01-02"

// dateField only carries the year, month and day; the week layout is applied
// once the widget knows its first day of week.
type dateField struct {
	Year  int
	Month time.Month
	Day   int
}

func (d *dateField) UnmarshalYAML(node *yaml.Node) error {
	var value string

	if err := node.Decode(&value); err != nil {
		return err
	}

	parsed, err := time.Parse(dateFieldLayout, value)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected format YYYY-MM-DD", value)
	}

	d.Year, d.Month, d.Day = parsed.Date()

	return nil
}

type localeField struct {
	language.Tag
}

func (l *localeField) UnmarshalYAML(node *yaml.Node) error {
	var value string

	if err := node.Decode(&value); err != nil {
		return err
	}

	tag, err := language.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %v", value, err)
	}

	l.Tag = tag

	return nil
}

type locationField struct {
	*time.Location
}

func (l *locationField) UnmarshalYAML(node *yaml.Node) error {
	var value string

	if err := node.Decode(&value); err != nil {
		return err
	}

	location, err := time.LoadLocation(value)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %v", value, err)
	}

	l.Location = location

	return nil
}
