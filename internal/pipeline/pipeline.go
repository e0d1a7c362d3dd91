// Package pipeline runs one cleaning job: load, clean, analyze and export.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"corplinks/internal/analysis"
	"corplinks/internal/cleaning"
	"corplinks/internal/config"
	"corplinks/internal/exporter"
	"corplinks/internal/infrastructure"
	"corplinks/internal/loader"
	"corplinks/internal/validation"
	"corplinks/pkg/contracts/domain"
)

// Stage names, used for spans, metrics and log attributes.
const (
	StageValidate = "validate"
	StageLoad     = "load"
	StageClean    = "clean"
	StageAnalyze  = "analyze"
	StageExport   = "export"
)

// Result is everything a run produced.
type Result struct {
	RunID      string
	Load       loader.LoadStats
	Clean      cleaning.Stats
	Records    []domain.CleanedRecord
	Report     domain.AnalysisReport
	CleanedCSV string
	ReportJSON string
	Workbook   string
	Tables     []string
	Duration   time.Duration
}

// Runner wires the cleaning components for one configuration.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	validator *validation.FileValidator
	loader    *loader.Loader
	cleaner   *cleaning.Cleaner
	analyzer  *analysis.Analyzer
	writer    *exporter.CSVWriter
}

// NewRunner builds a runner. telemetry may be nil; paths may be nil when
// every configured path is already absolute or relative to the working
// directory.
func NewRunner(cfg *config.Config, paths *config.Paths, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "pipeline")),
		telemetry: telemetry,
		validator: validation.NewFileValidator(logger),
		loader:    loader.New(cfg.Input, logger),
		cleaner:   cleaning.NewCleaner(logger, cfg.Cleaning.Workers),
		analyzer:  analysis.NewAnalyzer(logger),
		writer:    exporter.NewCSVWriter(paths, logger),
	}
}

// Run executes every stage in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	start := time.Now()
	res := &Result{RunID: infrastructure.GetRunID(ctx)}
	metrics := r.telemetry.PipelineMetrics()

	r.logger.InfoContext(ctx, "Pipeline started",
		slog.String("input", r.cfg.Input.Path),
		slog.String("schema_policy", r.cfg.Input.SchemaPolicy),
		slog.Int("workers", r.cfg.Cleaning.Workers))

	err := r.stage(ctx, StageValidate, func(ctx context.Context) error {
		if err := r.validator.ValidateInputFile(r.cfg.Input.Path); err != nil {
			return err
		}
		if err := r.validator.ValidateOutputs(r.cfg.Output.CleanedCSV, r.cfg.Output.ReportJSON, r.cfg.Output.Workbook); err != nil {
			return err
		}
		if dir := r.cfg.Output.TablesDir; dir != "" {
			return r.validator.ValidateOutputDirectory(dir)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var raw []domain.RawRecord
	err = r.stage(ctx, StageLoad, func(ctx context.Context) error {
		var err error
		raw, res.Load, err = r.loader.Load(ctx, r.cfg.Input.Path)
		if err == nil {
			metrics.RecordLoaded(ctx, res.Load.Loaded, res.Load.Rejected)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageClean, func(ctx context.Context) error {
		var err error
		res.Records, res.Clean, err = r.cleaner.Clean(ctx, raw)
		if err != nil {
			return err
		}
		metrics.RecordCleaned(ctx, res.Clean.Rows)
		for _, f := range domain.Fields() {
			metrics.RecordMissing(ctx, f.String(), res.Clean.Missing[f])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageAnalyze, func(ctx context.Context) error {
		res.Report = r.analyzer.Analyze(ctx, res.Records)
		metrics.RecordFindings(ctx, analysis.ReportOverOwnership, len(res.Report.OverOwnership))
		metrics.RecordFindings(ctx, analysis.ReportChangingOwnership, len(res.Report.ChangingOwnership))
		metrics.RecordFindings(ctx, analysis.ReportMultiOwners, len(res.Report.MultiOwners))
		metrics.RecordFindings(ctx, analysis.ReportMissingTaxID, res.Report.MissingTaxIDCount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageExport, func(ctx context.Context) error {
		return r.export(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	r.logger.InfoContext(ctx, "Pipeline complete",
		slog.Int("rows", res.Report.Rows),
		slog.Int("rejected", res.Load.Rejected),
		slog.Duration("duration", res.Duration))

	if path := r.cfg.Telemetry.MetricsTextfile; path != "" {
		if err := r.telemetry.WriteMetricsTextfile(path); err != nil {
			r.logger.WarnContext(ctx, "Failed to write metrics textfile",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	return res, nil
}

func (r *Runner) export(ctx context.Context, res *Result) error {
	var err error
	res.CleanedCSV, err = r.writer.WriteCleanedCSV(r.cfg.Output.CleanedCSV, res.Records, r.cfg.Output.BOMPrefix)
	if err != nil {
		return err
	}

	if r.cfg.Output.ReportJSON == "" && r.cfg.Output.Workbook == "" && r.cfg.Output.TablesDir == "" {
		return nil
	}

	doc := exporter.NewReportDocument(res.Report)
	doc.RunID = res.RunID
	doc.Input = r.cfg.Input.Path
	doc.Load = res.Load
	doc.Missing = res.Clean.MissingByName()

	if r.cfg.Output.ReportJSON != "" {
		if res.ReportJSON, err = r.writer.WriteReportJSON(r.cfg.Output.ReportJSON, doc); err != nil {
			return err
		}
	}
	if r.cfg.Output.Workbook != "" {
		if res.Workbook, err = r.writer.WriteWorkbook(r.cfg.Output.Workbook, res.Records, doc); err != nil {
			return err
		}
	}
	if r.cfg.Output.TablesDir != "" {
		if res.Tables, err = r.writer.WriteReportTables(r.cfg.Output.TablesDir, doc, r.cfg.Output.BOMPrefix); err != nil {
			return err
		}
	}

	r.logger.DebugContext(ctx, "Outputs written",
		slog.String("cleaned_csv", res.CleanedCSV),
		slog.String("report_json", res.ReportJSON),
		slog.String("workbook", res.Workbook),
		slog.Int("tables", len(res.Tables)))
	return nil
}

// stage runs fn inside a span and records its duration.
func (r *Runner) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := r.telemetry.StartStage(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	r.telemetry.PipelineMetrics().RecordStage(ctx, name, elapsed)

	if err != nil {
		infrastructure.RecordError(span, err, name+" failed")
		r.logger.ErrorContext(ctx, "Stage failed",
			slog.String("stage", name),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
		return err
	}

	r.logger.DebugContext(ctx, "Stage complete",
		slog.String("stage", name),
		slog.Duration("duration", elapsed))
	return nil
}
