package exporter

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	apperrors "corplinks/internal/errors"
	"corplinks/internal/loader"
	"corplinks/pkg/contracts"
	"corplinks/pkg/contracts/domain"
)

// ReportDocument is the persisted form of one run's analysis. Entries are
// sorted so the document is stable across runs.
type ReportDocument struct {
	FormatVersion     string                          `json:"format_version"`
	RunID             string                          `json:"run_id,omitempty"`
	GeneratedAt       time.Time                       `json:"generated_at"`
	Input             string                          `json:"input,omitempty"`
	Load              loader.LoadStats                `json:"load"`
	Rows              int                             `json:"rows"`
	Missing           map[string]int                  `json:"missing"`
	MissingTaxIDCount int                             `json:"missing_tax_id_count"`
	OverOwnership     []domain.OverOwnershipEntry     `json:"over_ownership"`
	ChangingOwnership []domain.ChangingOwnershipEntry `json:"changing_ownership"`
	MultiOwners       []domain.MultiOwnerEntry        `json:"multi_owners"`
}

// NewReportDocument fills the report sections of a document from report.
// Run metadata is left to the caller.
func NewReportDocument(report domain.AnalysisReport) ReportDocument {
	return ReportDocument{
		FormatVersion:     contracts.DataFormatVersion,
		GeneratedAt:       time.Now().UTC(),
		Rows:              report.Rows,
		Missing:           map[string]int{},
		MissingTaxIDCount: report.MissingTaxIDCount,
		OverOwnership:     report.OverOwnershipEntries(),
		ChangingOwnership: report.ChangingOwnershipEntries(),
		MultiOwners:       report.MultiOwnerEntries(),
	}
}

// WriteReportJSON writes doc as indented JSON and returns the resolved path.
func (w *CSVWriter) WriteReportJSON(filePath string, doc ReportDocument) (string, error) {
	fullPath := w.resolvePath(filePath)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", apperrors.NewStorageError("failed to encode report", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}
	if err := os.WriteFile(fullPath, append(data, '\n'), 0644); err != nil {
		return "", apperrors.NewStorageError("failed to write report", err).WithContext("path", fullPath)
	}

	w.logger.Info("Analysis report written",
		slog.String("path", fullPath),
		slog.Int("over_ownership", len(doc.OverOwnership)),
		slog.Int("changing_ownership", len(doc.ChangingOwnership)),
		slog.Int("multi_owners", len(doc.MultiOwners)))
	return fullPath, nil
}

// ReadReportJSON loads a document written by WriteReportJSON.
func ReadReportJSON(path string) (ReportDocument, error) {
	var doc ReportDocument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, apperrors.NewNotFoundError("report").WithContext("path", path)
		}
		return doc, apperrors.NewStorageError("failed to read report", err).WithContext("path", path)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, apperrors.NewParsingError("failed to decode report", err).WithContext("path", path)
	}
	return doc, nil
}
