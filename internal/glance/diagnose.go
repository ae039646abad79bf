package glance

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"
)

const diagnosticRequestTimeout = 15 * time.Second

type diagnosticStep struct {
	name      string
	fn        func(context.Context) (string, error)
	extraInfo string
	err       error
	elapsed   time.Duration
}

// eventSourceDiagnosticSteps returns one step per event source of every
// calendar widget in the config.
func eventSourceDiagnosticSteps(config *config, client requestDoer) []diagnosticStep {
	var steps []diagnosticStep

	for p := range config.Pages {
		for _, column := range config.Pages[p].Columns {
			for _, w := range column.Widgets {
				widget, ok := w.(*calendarWidget)
				if !ok {
					continue
				}

				for i := range widget.Events {
					source := &widget.Events[i]
					location := widget.location

					steps = append(steps, diagnosticStep{
						name: fmt.Sprintf("fetch %s events from %s", source.Type, source.Name),
						fn: func(ctx context.Context) (string, error) {
							events, err := fetchEventsFromSource(ctx, client, source, location)
							if err != nil {
								return "", err
							}

							return fmt.Sprintf("%d %s", len(events), ternary(len(events) == 1, "event", "events")), nil
						},
					})
				}
			}
		}
	}

	return steps
}

func runDiagnosticSteps(steps []diagnosticStep) {
	var wg sync.WaitGroup

	for i := range steps {
		step := &steps[i]

		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), diagnosticRequestTimeout)
			defer cancel()

			start := time.Now()
			step.extraInfo, step.err = step.fn(ctx)
			step.elapsed = time.Since(start)
		}()
	}

	wg.Wait()
}

func printDiagnostic(w io.Writer, steps []diagnosticStep) int {
	fmt.Fprintln(w, "```")
	fmt.Fprintln(w, "Version: "+buildVersion)
	fmt.Fprintln(w, "Go version: "+runtime.Version())
	fmt.Fprintf(w, "Platform: %s / %s / %d CPUs\n", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if len(steps) == 0 {
		fmt.Fprintln(w, "\nNo event sources configured")
	} else {
		fmt.Fprintln(w)
	}

	failed := 0

	for _, step := range steps {
		var extraInfo string

		if step.extraInfo != "" {
			extraInfo = "| " + step.extraInfo + " "
		}

		fmt.Fprintf(w,
			"%s %s %s| %dms\n",
			ternary(step.err == nil, "✓ Can", "✗ Can't"),
			step.name,
			extraInfo,
			step.elapsed.Milliseconds(),
		)

		if step.err != nil {
			failed++
			fmt.Fprintf(w, "└╴ error: %v\n", step.err)
		}
	}

	fmt.Fprintln(w, "```")

	return ternary(failed == 0, 0, 1)
}

func runDiagnostic(w io.Writer, configPath string) int {
	config, err := newConfigFromFile(configPath)
	if err != nil {
		fmt.Fprintln(w, err)
		return 1
	}

	steps := eventSourceDiagnosticSteps(config, defaultHTTPClient)
	runDiagnosticSteps(steps)

	return printDiagnostic(w, steps)
}
