// ABOUTME: Demo CLI for the event dispatcher with terminal crash recovery
// ABOUTME: Loads config, enters raw mode, prints every key and counts ticks until the exit key

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mauromedda/ttyevents/internal/config"
	"github.com/mauromedda/ttyevents/internal/log"
	"github.com/mauromedda/ttyevents/pkg/events"
	"github.com/mauromedda/ttyevents/pkg/tui/key"
	"github.com/mauromedda/ttyevents/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("ttyevents %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if args.printConfig {
		if err := printDefaultConfig(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run loads settings, wires logging, and drives the event loop.
func run(args cliArgs) error {
	settings, err := loadSettings(args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	closeLog, err := setupLogging(settings, args.verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := settings.EventsConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tty, err := terminal.OpenTTY()
	if err != nil {
		return err
	}
	defer tty.Close()

	pt := terminal.NewProcessTerminal(tty)
	if err := pt.EnterRawMode(); err != nil {
		return err
	}
	defer pt.ExitRawMode()
	defer terminal.RestoreOnPanic(pt)

	cols, _, err := pt.Size()
	if err != nil {
		log.Debug("terminal size: %v", err)
	}

	log.Debug("starting dispatcher: exit=%s tick=%s", cfg.ExitKey.Name(), cfg.TickRate)
	d := events.WithConfig(cfg)
	defer d.Close()

	return loop(d, newScreen(pt, cfg.ExitKey, cols))
}

// loop consumes events until the exit key. A disconnected stream is fatal.
func loop(d *events.Dispatcher[key.Key], s *screen) error {
	defer s.Close()

	for {
		ev, err := d.Next()
		if err != nil {
			return fmt.Errorf("event stream: %w", err)
		}

		k, ok := ev.Key()
		if !ok {
			if err := s.Tick(); err != nil {
				return fmt.Errorf("drawing status: %w", err)
			}
			continue
		}

		if err := s.Key(k); err != nil {
			return fmt.Errorf("drawing key: %w", err)
		}
		if k == d.Config().ExitKey {
			return nil
		}
	}
}

// loadSettings reads the config file(s) and applies flag overrides.
func loadSettings(args cliArgs) (*config.Settings, error) {
	var (
		settings *config.Settings
		err      error
	)
	if args.config != "" {
		// An explicit path must exist; only the default locations are optional.
		if _, err := os.Stat(args.config); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", args.config, err)
		}
		settings, err = config.LoadFiles(args.config)
	} else {
		cwd, werr := os.Getwd()
		if werr != nil {
			return nil, fmt.Errorf("getting working directory: %w", werr)
		}
		settings, err = config.Load(cwd)
	}
	if err != nil {
		return nil, err
	}

	if args.exitKey != "" {
		settings.ExitKey = args.exitKey
	}
	if args.tickSet {
		settings.TickRate = args.tick.String()
	}
	if args.logFile != "" {
		settings.LogFile = args.logFile
	}
	return settings, nil
}

// printDefaultConfig writes the commented default config, ready to be saved
// as ~/.ttyevents/config.yaml.
func printDefaultConfig(w io.Writer) error {
	_, err := w.Write(config.DefaultYAML())
	return err
}

// setupLogging applies the level and, with a log file, redirects output so
// diagnostics do not scribble over the raw-mode screen.
func setupLogging(s *config.Settings, verbose bool) (func(), error) {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		level = log.LevelDebug
	}
	log.SetLevel(level)

	path := strings.TrimSpace(s.LogFile)
	if path == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f, true)
	return func() {
		log.SetOutput(nil, false)
		_ = f.Close()
	}, nil
}
