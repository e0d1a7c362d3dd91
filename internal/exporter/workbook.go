package exporter

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "corplinks/internal/errors"
	"corplinks/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetCleaned     = "cleaned"
	SheetOver100     = "over100"
	SheetChanging    = "changing"
	SheetMultiOwners = "multi_owners"
	SheetSummary     = "summary"
)

// WriteWorkbook writes the cleaned table and the analysis sections of doc
// into one xlsx file and returns the resolved path.
func (w *CSVWriter) WriteWorkbook(filePath string, records []domain.CleanedRecord, doc ReportDocument) (string, error) {
	fullPath := w.resolvePath(filePath)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCleaned); err != nil {
		return "", apperrors.NewStorageError("failed to rename sheet", err)
	}
	if err := writeCleanedSheet(f, records); err != nil {
		return "", err
	}

	over := [][]interface{}{headerRow(over100Headers)}
	for _, e := range doc.OverOwnership {
		over = append(over, []interface{}{string(e.Company), string(e.TaxID), e.Total})
	}
	changing := [][]interface{}{headerRow(changingHeaders)}
	for _, e := range doc.ChangingOwnership {
		changing = append(changing, []interface{}{string(e.Owner), string(e.Company), e.DistinctStakes})
	}
	multi := [][]interface{}{headerRow(multiOwnersHeaders)}
	for _, e := range doc.MultiOwners {
		multi = append(multi, []interface{}{string(e.Owner), e.Companies})
	}
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"rows", doc.Rows},
		{"lines_read", doc.Load.Lines},
		{"rows_rejected", doc.Load.Rejected},
		{"missing_tax_id", doc.MissingTaxIDCount},
		{"over_ownership_groups", len(doc.OverOwnership)},
		{"changing_ownership_groups", len(doc.ChangingOwnership)},
		{"multi_owners", len(doc.MultiOwners)},
	}
	if doc.RunID != "" {
		summary = append(summary, []interface{}{"run_id", doc.RunID})
	}

	for _, sheet := range []struct {
		name string
		rows [][]interface{}
	}{
		{SheetOver100, over},
		{SheetChanging, changing},
		{SheetMultiOwners, multi},
		{SheetSummary, summary},
	} {
		if err := writeSheet(f, sheet.name, sheet.rows); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).WithContext("path", fullPath)
	}

	w.logger.Info("Workbook written",
		slog.String("path", fullPath),
		slog.Int("rows", len(records)))
	return fullPath, nil
}

// writeCleanedSheet streams the cleaned table. Fractions are stored as
// numbers so they stay usable in formulas; other values are text.
func writeCleanedSheet(f *excelize.File, records []domain.CleanedRecord) error {
	sw, err := f.NewStreamWriter(SheetCleaned)
	if err != nil {
		return apperrors.NewStorageError("failed to open sheet stream", err).WithContext("sheet", SheetCleaned)
	}

	if err := sw.SetRow("A1", headerRow(CleanedHeaders())); err != nil {
		return apperrors.NewStorageError("failed to write header row", err).WithContext("sheet", SheetCleaned)
	}

	for i, r := range records {
		text := CleanedRow(r)
		row := make([]interface{}, len(text))
		for j, v := range text {
			row[j] = v
		}
		if v, ok := r.Ownership.Get(); ok {
			row[domain.FieldOwnership] = float64(v)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return apperrors.NewStorageError("failed to write row", err).WithContext("row", i+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return apperrors.NewStorageError("failed to flush sheet", err).WithContext("sheet", SheetCleaned)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return apperrors.NewStorageError("failed to create sheet", err).WithContext("sheet", name)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.NewStorageError("invalid cell", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write row", err).WithContext("sheet", name)
		}
	}
	return nil
}

func headerRow(headers []string) []interface{} {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}
