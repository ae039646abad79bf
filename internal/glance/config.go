package glance

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type config struct {
	Server struct {
		Host       string `yaml:"host"`
		Port       uint16 `yaml:"port"`
		BaseURL    string `yaml:"base-url"`
		AssetsPath string `yaml:"assets-path"`
	} `yaml:"server"`

	Branding struct {
		AppName string `yaml:"app-name"`
	} `yaml:"branding"`

	Pages []page `yaml:"pages"`
}

type page struct {
	Title   string `yaml:"name"`
	Slug    string `yaml:"slug"`
	Width   string `yaml:"width"`
	Columns []struct {
		Size    string  `yaml:"size"`
		Widgets widgets `yaml:"widgets"`
	} `yaml:"columns"`
	PrimaryColumnIndex int8       `yaml:"-"`
	mu                 sync.Mutex `yaml:"-"`
}

func newConfigFromYAML(contents []byte) (*config, error) {
	config := &config{}
	config.Server.Port = 8080

	if len(bytes.TrimSpace(contents)) == 0 {
		return nil, errors.New("config is empty")
	}

	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, err
	}

	if err := isConfigStateValid(config); err != nil {
		return nil, err
	}

	return config, nil
}

func newConfigFromFile(path string) (*config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config, err := newConfigFromYAML(contents)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return config, nil
}

func isConfigStateValid(config *config) error {
	if len(config.Pages) == 0 {
		return errors.New("no pages configured")
	}

	if config.Server.AssetsPath != "" {
		if _, err := os.Stat(config.Server.AssetsPath); os.IsNotExist(err) {
			return errors.New("assets directory does not exist: " + config.Server.AssetsPath)
		}
	}

	slugs := make(map[string]struct{}, len(config.Pages))

	for i := range config.Pages {
		if config.Pages[i].Title == "" {
			return fmt.Errorf("page %d has no name", i+1)
		}

		if config.Pages[i].Slug == "" {
			config.Pages[i].Slug = titleToSlug(config.Pages[i].Title)
		}

		if _, exists := slugs[config.Pages[i].Slug]; exists {
			return fmt.Errorf("page %d: duplicate slug %q", i+1, config.Pages[i].Slug)
		}

		slugs[config.Pages[i].Slug] = struct{}{}

		if config.Pages[i].Width != "" && (config.Pages[i].Width != "wide" && config.Pages[i].Width != "slim") {
			return fmt.Errorf("page %d: width can only be either wide or slim", i+1)
		}

		if len(config.Pages[i].Columns) == 0 {
			return fmt.Errorf("page %d has no columns", i+1)
		}

		if len(config.Pages[i].Columns) > 3 {
			return fmt.Errorf("page %d has more than 3 columns", i+1)
		}

		columnSizesCount := make(map[string]int)

		for j := range config.Pages[i].Columns {
			if config.Pages[i].Columns[j].Size != "small" && config.Pages[i].Columns[j].Size != "full" {
				return fmt.Errorf("column %d of page %d: size can only be either small or full", j+1, i+1)
			}

			columnSizesCount[config.Pages[i].Columns[j].Size]++
		}

		full := columnSizesCount["full"]

		if full > 2 || full == 0 {
			return fmt.Errorf("page %d must have either 1 or 2 full width columns", i+1)
		}
	}

	return nil
}

// firstCalendarWidget returns the first date picker widget of the config, if any.
func (c *config) firstCalendarWidget() (*calendarWidget, bool) {
	for p := range c.Pages {
		for _, column := range c.Pages[p].Columns {
			for _, w := range column.Widgets {
				if calendar, ok := w.(*calendarWidget); ok {
					return calendar, true
				}
			}
		}
	}

	return nil, false
}
