package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"solarstock/internal/app"
	"solarstock/internal/config"
	apperrors "solarstock/internal/errors"
)

// Exit codes
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitEmptyInput = 3
)

// cliOptions holds the parsed command line
type cliOptions struct {
	configFile string
	input      string
	output     string
	cutoff     int
	workbook   bool
	serve      bool
	addr       string
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &cliOptions{}
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file (defaults to config.yaml or configs/config.yaml)")
	fs.StringVar(&opts.input, "in", "", "register extract, CSV or XLSX (defaults to the newest snapshot)")
	fs.StringVar(&opts.output, "out", "", "output name without extension, or - to write the series CSV to stdout")
	fs.IntVar(&opts.cutoff, "cutoff", 0, "first year of the cutoff slice (defaults to the configured cutoff)")
	fs.BoolVar(&opts.workbook, "xlsx", false, "also write an XLSX workbook")
	fs.BoolVar(&opts.serve, "serve", false, "serve the result over HTTP after the run")
	fs.StringVar(&opts.addr, "addr", "", "listen address of the report server")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// loadConfig applies flags on top of the file and environment configuration
func loadConfig(opts *cliOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.input != "" {
		cfg.Paths.InputFile = opts.input
	}
	if opts.output != "" && opts.output != "-" {
		cfg.Pipeline.OutputName = opts.output
	}
	if opts.cutoff != 0 {
		cfg.Pipeline.CutoffYear = opts.cutoff
	}
	if opts.workbook {
		cfg.Pipeline.WriteWorkbook = true
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitUsage
	}

	appOpts := app.Options{}
	if opts.output == "-" {
		appOpts.Stdout = stdout
	}

	application, err := app.NewApplication(cfg, appOpts)
	if err != nil {
		fmt.Fprintf(stderr, "startup failed: %v\n", err)
		return exitFailure
	}
	defer application.Stop(context.Background())

	logger := application.Logger

	if _, err := application.RunPipeline(ctx); err != nil {
		logger.ErrorContext(ctx, "Reconciliation failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "reconciliation failed: %v\n", err)
		if errors.Is(err, apperrors.ErrEmptyInput) {
			return exitEmptyInput
		}
		return exitFailure
	}

	if opts.serve {
		if err := application.Serve(ctx); err != nil {
			logger.ErrorContext(ctx, "Report server failed", slog.String("error", err.Error()))
			return exitFailure
		}
	}

	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
