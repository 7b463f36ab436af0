package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sambeau/measure/config"
	"github.com/sambeau/measure/pkg/measure/catalog"
	"github.com/sambeau/measure/pkg/measure/converter"
	measureerrors "github.com/sambeau/measure/pkg/measure/errors"
	"github.com/sambeau/measure/pkg/measure/repl"
	"github.com/sambeau/measure/server"
)

// Version information, set at build time via -ldflags
var (
	Version = "dev"     // -X main.Version=$(git describe --tags --always)
	Commit  = "unknown" // -X main.Commit=$(git rev-parse --short HEAD)
)

// errConversionFailed is returned after a failed conversion has already been
// printed, so main exits non-zero without repeating it.
var errConversionFailed = errors.New("conversion failed")

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		if !errors.Is(err, errConversionFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) == 0 {
		return runREPL(nil, stdout, getenv)
	}

	switch args[0] {
	case "repl":
		return runREPL(args[1:], stdout, getenv)
	case "ask":
		return runAsk(args[1:], stdout, stderr, getenv)
	case "convert":
		return runConvert(args[1:], stdout, stderr, getenv)
	case "units":
		return runUnits(args[1:], stdout)
	case "serve":
		return runServe(ctx, args[1:], stdout, stderr, getenv)
	}

	flags := flag.NewFlagSet("measure", flag.ContinueOnError)
	flags.SetOutput(io.Discard) // Suppress default -h output
	var (
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return nil
		}
		printUsage(stderr)
		return err
	}

	switch {
	case *showHelp:
		printUsage(stdout)
		return nil
	case *showVersion:
		fmt.Fprintf(stdout, "measure version %s (%s)\n", Version, Commit)
		return nil
	}

	printUsage(stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

// newFlags returns a flag set carrying the --config flag every command shares.
func newFlags(name string) (*flag.FlagSet, *string) {
	flags := flag.NewFlagSet("measure "+name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configPath := flags.String("config", "", "Path to config file")
	return flags, configPath
}

// loadConverter builds a converter using the display settings from config.
func loadConverter(configPath string, getenv func(string) string) (*converter.Converter, error) {
	cfg, err := config.Load(configPath, getenv)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return converter.New(nil, converter.Settings{
		Precision: cfg.Display.Precision,
		Symbols:   cfg.Display.Symbols,
	}), nil
}

func runREPL(args []string, stdout io.Writer, getenv func(string) string) error {
	flags, configPath := newFlags("repl")
	if err := flags.Parse(args); err != nil {
		return err
	}
	conv, err := loadConverter(*configPath, getenv)
	if err != nil {
		return err
	}
	repl.Start(stdout, Version, conv)
	return nil
}

// runAsk answers one free-text query; the remaining arguments are joined.
func runAsk(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags, configPath := newFlags("ask")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(stderr, `Usage: measure ask "convert 10 km to miles"`)
		return errors.New("ask requires a query")
	}
	conv, err := loadConverter(*configPath, getenv)
	if err != nil {
		return err
	}
	return printMessage(stdout, conv.Interpret(strings.Join(flags.Args(), " ")))
}

// runConvert converts an explicit selection: quantity, category, from, to.
func runConvert(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags, configPath := newFlags("convert")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 4 {
		fmt.Fprintln(stderr, `Usage: measure convert <quantity> <category> <from> <to>`)
		fmt.Fprintln(stderr, `  e.g. measure convert 2 Volume "fl oz" millilitre`)
		return fmt.Errorf("convert requires 4 arguments, got %d", flags.NArg())
	}
	quantity, err := strconv.ParseFloat(flags.Arg(0), 64)
	if err != nil {
		return fmt.Errorf("quantity is not a number: %s", flags.Arg(0))
	}
	conv, err := loadConverter(*configPath, getenv)
	if err != nil {
		return err
	}
	return printMessage(stdout, conv.ConvertUnits(quantity, flags.Arg(1), flags.Arg(2), flags.Arg(3)))
}

// runUnits lists the catalog, or one category of it.
func runUnits(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		for _, c := range catalog.Categories() {
			fmt.Fprintf(stdout, "%-12s %s\n", c, strings.Join(catalog.Units(c), ", "))
		}
		return nil
	}
	name := strings.Join(args, " ")
	c, ok := catalog.LookupCategory(name)
	if !ok {
		if matches := measureerrors.FindTopMatches(name, categoryNames(), 1); len(matches) > 0 {
			return fmt.Errorf("unknown category %q (did you mean %s?)", name, matches[0])
		}
		return fmt.Errorf("unknown category %q (try one of: %s)", name, strings.Join(categoryNames(), ", "))
	}
	for _, u := range catalog.Units(c) {
		fmt.Fprintln(stdout, u)
	}
	return nil
}

func runServe(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags, configPath := newFlags("serve")
	var (
		quietMode = flags.Bool("quiet", false, "Suppress request logs (sets log level to error)")
		port      = flags.Int("port", 0, "Override listen port")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configFile, err := config.LoadWithPath(*configPath, getenv)
	if errors.Is(err, config.ErrNotFound) {
		cfg, configFile, err = config.Defaults(), "", nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply CLI overrides
	if *quietMode {
		cfg.Logging.Quiet = true
	}
	if cfg.Logging.Quiet {
		cfg.Logging.Level = "error"
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logOut, closeLog, err := server.OpenLogOutput(cfg.Logging.Output, stdout, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	srv, err := server.New(cfg, configFile, nil, logOut, stderr)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	return srv.Run(ctx)
}

// printMessage writes the message and its hints, returning
// errConversionFailed for a classified failure.
func printMessage(w io.Writer, msg converter.Message) error {
	fmt.Fprintln(w, msg.String())
	for _, hint := range msg.Hints() {
		fmt.Fprintln(w, "  hint: "+hint)
	}
	if !msg.OK() {
		return fmt.Errorf("%w: %s", errConversionFailed, msg.Code())
	}
	return nil
}

func categoryNames() []string {
	var names []string
	for _, c := range catalog.Categories() {
		names = append(names, string(c))
	}
	return names
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `measure - convert quantities between units

Usage:
  measure [repl] [--config PATH]          Interactive assistant (default)
  measure ask [--config PATH] QUERY       Answer one query, e.g. "convert 10 km to miles"
  measure convert [--config PATH] QUANTITY CATEGORY FROM TO
  measure units [CATEGORY]                List units
  measure serve [options]                 Run the HTTP API

Serve Options:
  --config PATH      Path to config file (default: auto-detect)
  --quiet            Suppress request logs (sets log level to error)
  --port PORT        Override listen port

Other Options:
  --version          Show version
  --help             Show this help

Config Resolution:
  1. --config flag
  2. MEASURE_CONFIG environment variable
  3. ./measure.yaml
  4. ~/.config/measure/measure.yaml
  (built-in defaults when none is found)

Exit Status:
  0 on a successful conversion, 1 on a failed conversion or usage error.
`)
}
