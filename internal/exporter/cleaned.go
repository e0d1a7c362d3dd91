package exporter

import (
	"log/slog"

	"corplinks/pkg/contracts/domain"
)

// WriteCleanedCSV streams the cleaned table to filePath and returns the
// resolved path.
func (w *CSVWriter) WriteCleanedCSV(filePath string, records []domain.CleanedRecord, bom bool) (string, error) {
	stream, err := w.CreateStreamWriter(filePath, CleanedHeaders(), bom)
	if err != nil {
		return "", err
	}

	for _, r := range records {
		if err := stream.WriteRecord(CleanedRow(r)); err != nil {
			stream.Close()
			return "", err
		}
	}

	if err := stream.Close(); err != nil {
		return "", err
	}

	w.logger.Info("Cleaned table written",
		slog.String("path", stream.Path()),
		slog.Int("rows", stream.Rows()))
	return stream.Path(), nil
}
