// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --tick, --exit-key, --log, --verbose, --print-config, --version

package main

import (
	"flag"
	"fmt"
	"io"
	"time"
)

type cliArgs struct {
	config      string
	tick        time.Duration
	tickSet     bool
	exitKey     string
	logFile     string
	verbose     bool
	printConfig bool
	version     bool
}

// parseFlags parses args (without the program name). tickSet records
// whether --tick was given, since 0 is a valid rate.
func parseFlags(args []string, stderr io.Writer) (cliArgs, error) {
	var a cliArgs

	fs := flag.NewFlagSet("ttyevents", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.config, "config", "", "Config file (default: ~/.ttyevents/config.yaml then .ttyevents/config.yaml)")
	fs.DurationVar(&a.tick, "tick", 0, "Tick interval, e.g. 100ms (overrides config)")
	fs.StringVar(&a.exitKey, "exit-key", "", "Key that quits, e.g. q, ctrl+c, esc (overrides config)")
	fs.StringVar(&a.logFile, "log", "", "Write diagnostics to this file instead of stderr")
	fs.BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&a.printConfig, "print-config", false, "Print the default config file and exit")
	fs.BoolVar(&a.version, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return a, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "tick" {
			a.tickSet = true
		}
	})
	if a.tickSet && a.tick < 0 {
		err := fmt.Errorf("invalid value %q for flag -tick: negative duration", a.tick)
		fmt.Fprintln(stderr, err)
		return a, err
	}
	return a, nil
}
