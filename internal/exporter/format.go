package exporter

import (
	"time"

	"corplinks/internal/normalize"
	"corplinks/pkg/contracts/domain"
)

// DateLayout is how ownership dates are rendered in every output.
const DateLayout = "2006-01-02"

// CleanedHeaders are the column names of the cleaned table.
func CleanedHeaders() []string {
	headers := make([]string, 0, domain.FieldCount+1)
	for _, f := range domain.Fields() {
		headers = append(headers, f.String())
	}
	return append(headers, "Ownership_pct")
}

// CleanedRow renders one cleaned record in column order. Missing values
// become empty cells; the percent display is always filled.
func CleanedRow(r domain.CleanedRecord) []string {
	return []string{
		formatOptional(r.Owner),
		formatOptional(r.Company),
		formatOptional(r.TaxID),
		formatFraction(r.Ownership),
		r.Region.OrElse(""),
		r.Source.OrElse(""),
		formatDate(r.OwnershipDate),
		r.OwnershipPercent,
	}
}

func formatOptional[T ~string](v domain.Optional[T]) string {
	return string(v.OrElse(""))
}

// formatFraction renders a fraction in its shortest round-trip form
func formatFraction(f domain.Optional[domain.Fraction]) string {
	v, ok := f.Get()
	if !ok {
		return ""
	}
	return normalize.FormatFloat(float64(v))
}

func formatDate(d domain.Optional[time.Time]) string {
	v, ok := d.Get()
	if !ok {
		return ""
	}
	return v.Format(DateLayout)
}
