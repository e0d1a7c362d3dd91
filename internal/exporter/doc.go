// Package exporter writes the results of a cleaning run.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM and a streaming
// mode. On top of it:
//
//   - WriteCleanedCSV writes the cleaned table under the FIO_owner,
//     Company_name, ... column names downstream tools expect.
//   - WriteReportJSON writes the analysis report as an indented document.
//   - WriteWorkbook writes the cleaned table and every report as sheets of
//     one xlsx file.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths, logger)
//	err := w.WriteCleanedCSV("data/processed/cleaned_data.csv", records, true)
package exporter
