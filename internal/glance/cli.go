package glance

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/glanceapp/datepicker/internal/calendar"
	"github.com/glanceapp/datepicker/internal/picker"
)

type cliIntent uint8

const (
	cliIntentServe cliIntent = iota
	cliIntentConfigValidate
	cliIntentMonthPrint
	cliIntentVersionPrint
	cliIntentDiagnose
)

type cliOptions struct {
	intent     cliIntent
	configPath string
	args       []string
}

func parseCliOptions(args []string) (*cliOptions, error) {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Println("Usage: datepicker [options] command")

		fmt.Println("\nOptions:")
		flags.PrintDefaults()

		fmt.Println("\nCommands:")
		fmt.Println("  month:print [YYYY-MM]  Print a month grid using the first calendar widget")
		fmt.Println("  diagnose               Check that the configured event sources can be fetched")
		fmt.Println("  version                Print the version")
	}

	checkConfig := flags.Bool("check-config", false, "Check whether the config is valid")
	configPath := flags.String("config", "glance.yml", "Set config path")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	options := &cliOptions{
		intent:     cliIntentServe,
		configPath: *configPath,
		args:       flags.Args(),
	}

	if *checkConfig {
		options.intent = cliIntentConfigValidate
		return options, nil
	}

	if len(options.args) == 0 {
		return options, nil
	}

	switch options.args[0] {
	case "month:print":
		if len(options.args) > 2 {
			return nil, errors.New("month:print accepts at most one month argument")
		}
		options.intent = cliIntentMonthPrint
	case "diagnose":
		options.intent = cliIntentDiagnose
	case "version", "--version":
		options.intent = cliIntentVersionPrint
	default:
		return nil, fmt.Errorf("unknown command: %s", options.args[0])
	}

	return options, nil
}

// monthPrintController builds a picker from the first calendar widget of the
// config, falling back to defaults when there is no usable config.
func monthPrintController(configPath string) *picker.Controller {
	if _, err := os.Stat(configPath); err == nil {
		config, err := newConfigFromFile(configPath)
		if err == nil {
			if widget, ok := config.firstCalendarWidget(); ok {
				return widget.picker
			}
		} else {
			fmt.Fprintf(os.Stderr, "Ignoring config: %v\n", err)
		}
	}

	return picker.NewController(picker.Options{ShowToday: true})
}

func cliPrintMonth(w io.Writer, options *cliOptions) int {
	controller := monthPrintController(options.configPath)

	if len(options.args) > 1 {
		month, err := calendar.ParseMonth(options.args[1], controller.Provider().FirstWeekday())
		if err != nil {
			fmt.Fprintln(w, err)
			return 1
		}

		if !controller.ShowMonth(month) {
			fmt.Fprintf(w, "Month %s is outside of the selectable range\n", month.MonthString())
			return 1
		}
	}

	fmt.Fprint(w, formatMonthText(controller))

	return 0
}

// formatMonthText renders the visible month as a plain text grid. The selected
// day is wrapped in brackets, today in parentheses and disabled days in dots.
func formatMonthText(controller *picker.Controller) string {
	var b strings.Builder

	header := controller.Header()
	b.WriteString(header.Title)
	b.WriteByte('\n')

	for i, label := range controller.Weekdays() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%4s", label)
	}
	b.WriteByte('\n')

	for _, row := range controller.Month().Rows {
		for i, day := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatDayText(day))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func formatDayText(day picker.DayView) string {
	if day.Empty {
		return strings.Repeat(" ", 4)
	}

	switch {
	case day.State == picker.CellSelected:
		return fmt.Sprintf("[%2d]", day.Day())
	case day.State == picker.CellDisabled:
		return fmt.Sprintf(".%2d.", day.Day())
	case day.Today:
		return fmt.Sprintf("(%2d)", day.Day())
	}

	return fmt.Sprintf(" %2d ", day.Day())
}
