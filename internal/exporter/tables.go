package exporter

import (
	"log/slog"
	"path/filepath"
	"strconv"

	"corplinks/internal/normalize"
)

// Report table file names, relative to the tables directory.
const (
	TableOver100     = "over100.csv"
	TableChanging    = "changing.csv"
	TableMultiOwners = "multi_owners.csv"
)

var (
	over100Headers     = []string{"Company_name", "INN_company", "Total_ownership"}
	changingHeaders    = []string{"FIO_owner", "Company_name", "Distinct_stakes"}
	multiOwnersHeaders = []string{"FIO_owner", "Companies"}
)

// WriteReportTables writes each group report of doc as its own CSV under
// dir and returns the resolved file paths. Empty reports still get a
// header-only file.
func (w *CSVWriter) WriteReportTables(dir string, doc ReportDocument, bom bool) ([]string, error) {
	over := make([][]string, 0, len(doc.OverOwnership))
	for _, e := range doc.OverOwnership {
		over = append(over, []string{string(e.Company), string(e.TaxID), normalize.FormatFloat(e.Total)})
	}
	changing := make([][]string, 0, len(doc.ChangingOwnership))
	for _, e := range doc.ChangingOwnership {
		changing = append(changing, []string{string(e.Owner), string(e.Company), strconv.Itoa(e.DistinctStakes)})
	}
	multi := make([][]string, 0, len(doc.MultiOwners))
	for _, e := range doc.MultiOwners {
		multi = append(multi, []string{string(e.Owner), strconv.Itoa(e.Companies)})
	}

	tables := []struct {
		name    string
		options WriteOptions
	}{
		{TableOver100, WriteOptions{Headers: over100Headers, Records: over, BOMPrefix: bom}},
		{TableChanging, WriteOptions{Headers: changingHeaders, Records: changing, BOMPrefix: bom}},
		{TableMultiOwners, WriteOptions{Headers: multiOwnersHeaders, Records: multi, BOMPrefix: bom}},
	}

	written := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.name)
		if err := w.WriteCSV(path, t.options); err != nil {
			return nil, err
		}
		written = append(written, w.resolvePath(path))
	}

	w.logger.Info("Report tables written",
		slog.String("dir", w.resolvePath(dir)),
		slog.Int("tables", len(written)))
	return written, nil
}
