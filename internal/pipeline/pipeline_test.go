package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corplinks/internal/config"
	apperrors "corplinks/internal/errors"
	"corplinks/internal/exporter"
	"corplinks/internal/infrastructure"
	"corplinks/internal/shared/testutil"
	"corplinks/pkg/contracts/domain"
)

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Path = filepath.Join(dir, "raw", "links.txt")
	cfg.Output.CleanedCSV = filepath.Join(dir, "processed", "cleaned_data.csv")
	cfg.Output.ReportJSON = filepath.Join(dir, "processed", "analysis_report.json")
	cfg.Output.Workbook = filepath.Join(dir, "processed", "analysis.xlsx")
	cfg.Cleaning.Workers = 3
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Input.Path), 0755))
	return cfg
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.Telemetry.MetricsTextfile = filepath.Join(dir, "metrics", "cleaner.prom")
	cfg.Output.TablesDir = filepath.Join(dir, "processed", "tables")

	lines := append([]string{}, testutil.SampleLines...)
	lines = append(lines, "Extra Person,Acme,111,0.1,Moscow,registry,01.01.2020,surplus")
	testutil.WriteLinesFile(t, filepath.Dir(cfg.Input.Path), filepath.Base(cfg.Input.Path), lines)

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, slog.Default())
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	logger, handler := testutil.NewTestLogger(t)
	ctx := infrastructure.WithRunID(context.Background(), "run-test")

	res, err := NewRunner(cfg, nil, tel, logger).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "run-test", res.RunID)
	assert.Equal(t, 11, res.Load.Lines)
	assert.Equal(t, 1, res.Load.Rejected)
	assert.Len(t, res.Records, 10)
	assert.Equal(t, 3, res.Report.MissingTaxIDCount)
	assert.Len(t, res.Report.OverOwnership, 1)

	assert.Equal(t, cfg.Output.CleanedCSV, res.CleanedCSV)
	assert.FileExists(t, res.CleanedCSV)
	assert.FileExists(t, res.Workbook)
	assert.FileExists(t, cfg.Telemetry.MetricsTextfile)
	require.Len(t, res.Tables, 3)
	for _, table := range res.Tables {
		assert.FileExists(t, table)
	}
	assert.Equal(t, filepath.Join(cfg.Output.TablesDir, exporter.TableOver100), res.Tables[0])

	doc, err := exporter.ReadReportJSON(res.ReportJSON)
	require.NoError(t, err)
	assert.Equal(t, "run-test", doc.RunID)
	assert.Equal(t, 1, doc.Load.Rejected)
	assert.Equal(t, 3, doc.Missing[domain.FieldTaxID.String()])
	require.Len(t, doc.MultiOwners, 2)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Pipeline complete")
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Rejected raw line")
	testutil.AssertNoErrors(t, handler)
}

func TestRunner_Run_OptionalOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.Output.ReportJSON = ""
	cfg.Output.Workbook = ""
	cfg.Cleaning.Workers = 1
	testutil.WriteLinesFile(t, filepath.Dir(cfg.Input.Path), filepath.Base(cfg.Input.Path), testutil.SampleLines)

	res, err := NewRunner(cfg, nil, nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID, "a run id is generated when missing")
	assert.FileExists(t, res.CleanedCSV)
	assert.Empty(t, res.ReportJSON)
	assert.Empty(t, res.Workbook)
}

func TestRunner_Run_RelativePaths(t *testing.T) {
	dir := t.TempDir()
	paths, err := config.GetPaths(dir)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Input.Path = "data/raw/corporate_links_raw.xlsx"
	cfg.Resolve(paths)
	require.NoError(t, os.MkdirAll(paths.RawDir, 0755))
	testutil.WriteWorkbook(t, paths.RawDir, "corporate_links_raw.xlsx", "", testutil.SampleLines)

	res, err := NewRunner(cfg, paths, nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "processed", "cleaned_data.csv"), res.CleanedCSV)
	assert.Equal(t, filepath.Join(dir, "data", "processed", "analysis_report.json"), res.ReportJSON)
	assert.Len(t, res.Records, 10)
}

func TestRunner_Run_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)

	logger, handler := testutil.NewTestLogger(t)
	_, err := NewRunner(cfg, nil, nil, logger).Run(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	testutil.AssertLogAttr(t, handler, "stage", StageValidate)
	assert.NoFileExists(t, cfg.Output.CleanedCSV)
}

func TestRunner_Run_Canceled(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	testutil.WriteLinesFile(t, filepath.Dir(cfg.Input.Path), filepath.Base(cfg.Input.Path), testutil.SampleLines)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(cfg, nil, nil, nil).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
