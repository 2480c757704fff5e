// Package main is the entry point for the navspy document viewer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/navspy/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errVersion stops flag handling after printing the version.
var errVersion = errors.New("version requested")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errVersion):
		fmt.Printf("navspy %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			application.Shutdown()
		}
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) || errors.Is(err, app.ErrShutdown) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags turns the command line into application options. Spy flags
// only override the configuration when given explicitly.
func parseFlags(args []string, stderr io.Writer) (app.Options, error) {
	var (
		opts        app.Options
		showVersion bool
		offset      float64
		duration    time.Duration
		exact       bool
		alwaysTrack bool
		noClick     bool
		noURL       bool
	)

	fs := flag.NewFlagSet("navspy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.Float64Var(&offset, "offset", 0, "Rows above a section that already count as inside it")
	fs.DurationVar(&duration, "duration", 0, "Scroll animation duration")
	fs.BoolVar(&exact, "exact", false, "Only highlight while a section is under the scroll position")
	fs.BoolVar(&alwaysTrack, "always-track", false, "Keep tracking the scroll position during animations")
	fs.BoolVar(&noClick, "no-click", false, "Do not animate navigation link clicks")
	fs.BoolVar(&noURL, "no-url", false, "Do not update the location fragment after navigating")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "navspy - terminal document viewer with a scroll-tracking table of contents\n\n")
		fmt.Fprintf(stderr, "Usage: navspy [options] FILE\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  navspy README.md                 View a Markdown file\n")
		fmt.Fprintf(stderr, "  navspy -offset 2 guide.html      Count two rows of lead-in\n")
		fmt.Fprintf(stderr, "  navspy -duration 0 README.md     Jump without animating\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if showVersion {
		return opts, errVersion
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("expected exactly one FILE argument")
	}
	opts.File = fs.Arg(0)

	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "offset":
			overrides["spy.offset"] = offset
		case "duration":
			overrides["spy.duration"] = duration
		case "exact":
			overrides["spy.exact"] = exact
		case "always-track":
			overrides["spy.always_track"] = alwaysTrack
		case "no-click":
			overrides["spy.click_to_scroll"] = !noClick
		case "no-url":
			overrides["spy.modify_url"] = !noURL
		}
	})
	opts.Overrides = overrides
	return opts, nil
}
