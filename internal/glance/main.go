package glance

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

var buildVersion = "dev"

func Main() int {
	options, err := parseCliOptions(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return 1
	}

	switch options.intent {
	case cliIntentVersionPrint:
		fmt.Println(buildVersion)
	case cliIntentServe:
		if err := serveApp(options.configPath); err != nil {
			fmt.Println(err)
			return 1
		}
	case cliIntentConfigValidate:
		if _, err := newConfigFromFile(options.configPath); err != nil {
			fmt.Printf("Config file is invalid: %v\n", err)
			return 1
		}

		fmt.Println("Config file is valid")
	case cliIntentMonthPrint:
		return cliPrintMonth(os.Stdout, options)
	case cliIntentDiagnose:
		return runDiagnostic(os.Stdout, options.configPath)
	}

	return 0
}

func serveApp(configPath string) error {
	exitChannel := make(chan struct{})
	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	var (
		mu       sync.Mutex
		stopFunc func() error
	)

	startApp := func(config *config) error {
		app, err := newApplication(config)
		if err != nil {
			return fmt.Errorf("creating application: %w", err)
		}

		startServer, stopServer := app.server()

		mu.Lock()
		if stopFunc != nil {
			if err := stopFunc(); err != nil {
				log.Printf("Error while trying to stop server: %v", err)
			}
		}
		stopFunc = stopServer
		mu.Unlock()

		go func() {
			if err := startServer(); err != nil {
				log.Printf("Failed to start server: %v", err)
			}
		}()

		return nil
	}

	config, err := newConfigFromFile(configPath)
	if err != nil {
		return err
	}

	if err := startApp(config); err != nil {
		return err
	}

	watcher, err := newConfigWatcher(configPath, func() {
		config, err := newConfigFromFile(configPath)
		if err != nil {
			log.Printf("Config has errors, keeping the previous one: %v", err)
			return
		}

		log.Println("Config file updated, reloading")
		if err := startApp(config); err != nil {
			log.Printf("Failed to reload, keeping the previous server: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("watching config file: %w", err)
	}
	defer watcher.Close()

	go func() {
		<-signalChannel
		close(exitChannel)
	}()

	<-exitChannel

	mu.Lock()
	defer mu.Unlock()

	if stopFunc != nil {
		return stopFunc()
	}

	return nil
}

const configReloadDebounce = 500 * time.Millisecond

// newConfigWatcher watches the directory of the config file since editors
// commonly replace the file rather than writing to it in place.
func newConfigWatcher(configPath string, onChange func()) (*fsnotify.Watcher, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var debounce *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != absPath {
					continue
				}

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(configReloadDebounce, onChange)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				slog.Error("Error watching config file", "error", err)
			}
		}
	}()

	return watcher, nil
}
