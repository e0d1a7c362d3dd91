package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corplinks/internal/config"
	apperrors "corplinks/internal/errors"
	"corplinks/internal/infrastructure"
	"corplinks/internal/pipeline"
	"corplinks/internal/report"
	"corplinks/pkg/contracts"
)

// options are the command-line overrides. Empty or zero values keep the
// configured setting.
type options struct {
	configFile string
	input      string
	output     string
	reportJSON string
	workbook   string
	tablesDir  string
	workers    int
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to ./config.yaml or ./configs/config.yaml when present)")
	fs.StringVar(&opts.input, "in", "", "raw export: .xlsx, .csv or .txt (default "+config.DefaultInputFile+")")
	fs.StringVar(&opts.output, "out", "", "cleaned CSV path (default "+config.DefaultCleanedCSV+")")
	fs.StringVar(&opts.reportJSON, "report", "", "analysis report JSON path (default "+config.DefaultReportJSON+")")
	fs.StringVar(&opts.workbook, "workbook", "", "optional xlsx workbook with the cleaned table and every report")
	fs.StringVar(&opts.tablesDir, "tables", "", "optional directory for the group reports as CSV files")
	fs.IntVar(&opts.workers, "workers", 0, "cleaning workers, 1 runs sequentially")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	err := fs.Parse(args)
	return opts, err
}

// apply overlays the command-line options onto cfg and revalidates it.
func (o options) apply(cfg *config.Config) error {
	if o.input != "" {
		cfg.Input.Path = o.input
	}
	if o.output != "" {
		cfg.Output.CleanedCSV = o.output
	}
	if o.reportJSON != "" {
		cfg.Output.ReportJSON = o.reportJSON
	}
	if o.workbook != "" {
		cfg.Output.Workbook = o.workbook
	}
	if o.tablesDir != "" {
		cfg.Output.TablesDir = o.tablesDir
	}
	if o.workers != 0 {
		cfg.Cleaning.Workers = o.workers
	}
	if err := cfg.Validate(); err != nil {
		return apperrors.NewConfigError("invalid command-line options", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", apperrors.NewConfigError("failed to load configuration", err))
		return 1
	}
	if err := opts.apply(cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	paths, err := config.GetPaths("")
	if err != nil {
		fmt.Fprintf(stderr, "Error: Failed to initialize paths: %v\n", err)
		return 1
	}
	cfg.Resolve(paths)
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "Error: Failed to create required directories: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution()

	ctx = infrastructure.EnsureRunID(ctx)

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logger.WarnContext(ctx, "Telemetry disabled",
			slog.String("error", err.Error()))
		tel = nil
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	res, err := pipeline.NewRunner(cfg, paths, tel, logger).Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Cleaning run failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	summary := report.Summary{
		RunID:      res.RunID,
		CleanedCSV: res.CleanedCSV,
		ReportJSON: res.ReportJSON,
		Workbook:   res.Workbook,
		TablesDir:  cfg.Output.TablesDir,
		Rejected:   res.Load.Rejected,
	}
	if err := report.Write(stdout, summary, res.Report); err != nil {
		logger.ErrorContext(ctx, "Failed to print summary", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
