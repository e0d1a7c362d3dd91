// Package report prints a human-readable summary of an analysis run.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"corplinks/internal/normalize"
	"corplinks/pkg/contracts/domain"
)

// Summary is what the console report shows besides the analysis itself.
type Summary struct {
	RunID      string
	CleanedCSV string
	ReportJSON string
	Workbook   string
	TablesDir  string
	Rejected   int
}

// Write prints the summary and the four analysis sections to w. Groups are
// listed in sorted order.
func Write(w io.Writer, s Summary, r domain.AnalysisReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Cleaning complete: %d rows", r.Rows)
	if s.RunID != "" {
		fmt.Fprintf(&b, " (run %s)", s.RunID)
	}
	b.WriteString("\n")
	if s.Rejected > 0 {
		fmt.Fprintf(&b, "Rejected lines: %d\n", s.Rejected)
	}
	for _, out := range []struct{ label, path string }{
		{"Cleaned table", s.CleanedCSV},
		{"Report", s.ReportJSON},
		{"Workbook", s.Workbook},
		{"Report tables", s.TablesDir},
	} {
		if out.path != "" {
			fmt.Fprintf(&b, "%s: %s\n", out.label, out.path)
		}
	}
	fmt.Fprintf(&b, "Missing tax id: %d\n", r.MissingTaxIDCount)

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	over := r.OverOwnershipEntries()
	fmt.Fprintf(tw, "\nOver 100%% ownership: %d\n", len(over))
	for _, e := range over {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Company, e.TaxID, normalize.FormatFloat(e.Total))
	}

	changing := r.ChangingOwnershipEntries()
	fmt.Fprintf(tw, "\nChanging ownership: %d\n", len(changing))
	for _, e := range changing {
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", e.Owner, e.Company, e.DistinctStakes)
	}

	multi := r.MultiOwnerEntries()
	fmt.Fprintf(tw, "\nMulti-company owners: %d\n", len(multi))
	for _, e := range multi {
		fmt.Fprintf(tw, "  %s\t%d\n", e.Owner, e.Companies)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}
