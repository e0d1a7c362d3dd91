// Package analysis runs cross-record checks over a cleaned ownership table.
//
// Each check is an independent read-only pass. A row whose grouping key has
// a missing component is left out of that grouping only.
package analysis

import (
	"context"
	"log/slog"

	"corplinks/pkg/contracts/domain"
)

// Report names used in logs and metrics.
const (
	ReportOverOwnership     = "over100"
	ReportChangingOwnership = "changing"
	ReportMultiOwners       = "multi_owners"
	ReportMissingTaxID      = "missing_tax_id"
)

// Analyzer computes the aggregate ownership reports.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger.With(slog.String("component", "analyzer"))}
}

// Analyze builds all four reports over records.
func (a *Analyzer) Analyze(ctx context.Context, records []domain.CleanedRecord) domain.AnalysisReport {
	report := domain.AnalysisReport{
		Rows:              len(records),
		OverOwnership:     OverOwnership(records),
		ChangingOwnership: ChangingOwnership(records),
		MultiOwners:       MultiOwners(records),
		MissingTaxIDCount: MissingTaxIDCount(records),
	}

	a.logger.InfoContext(ctx, "Analysis complete",
		slog.Int("rows", report.Rows),
		slog.Int(ReportOverOwnership, len(report.OverOwnership)),
		slog.Int(ReportChangingOwnership, len(report.ChangingOwnership)),
		slog.Int(ReportMultiOwners, len(report.MultiOwners)),
		slog.Int(ReportMissingTaxID, report.MissingTaxIDCount))

	return report
}

// OverOwnership sums ownership per (company, tax id) and keeps groups whose
// total is strictly greater than 1.0. Missing fractions add nothing.
func OverOwnership(records []domain.CleanedRecord) map[domain.CompanyKey]float64 {
	totals := make(map[domain.CompanyKey]float64)
	for _, r := range records {
		company, ok := r.Company.Get()
		if !ok {
			continue
		}
		taxID, ok := r.TaxID.Get()
		if !ok {
			continue
		}
		key := domain.CompanyKey{Company: company, TaxID: taxID}
		totals[key] += float64(r.Ownership.OrElse(0))
	}

	out := make(map[domain.CompanyKey]float64)
	for k, total := range totals {
		if total > 1.0 {
			out[k] = total
		}
	}
	return out
}

// ChangingOwnership counts distinct present fractions per (owner, company)
// and keeps groups with more than one.
func ChangingOwnership(records []domain.CleanedRecord) map[domain.OwnerCompanyKey]int {
	seen := make(map[domain.OwnerCompanyKey]map[domain.Fraction]struct{})
	for _, r := range records {
		owner, ok := r.Owner.Get()
		if !ok {
			continue
		}
		company, ok := r.Company.Get()
		if !ok {
			continue
		}
		key := domain.OwnerCompanyKey{Owner: owner, Company: company}
		stakes := seen[key]
		if stakes == nil {
			stakes = make(map[domain.Fraction]struct{})
			seen[key] = stakes
		}
		if f, ok := r.Ownership.Get(); ok {
			stakes[f] = struct{}{}
		}
	}

	out := make(map[domain.OwnerCompanyKey]int)
	for k, stakes := range seen {
		if len(stakes) > 1 {
			out[k] = len(stakes)
		}
	}
	return out
}

// MultiOwners counts distinct present companies per owner and keeps owners
// with more than one.
func MultiOwners(records []domain.CleanedRecord) map[domain.OwnerName]int {
	seen := make(map[domain.OwnerName]map[domain.CompanyName]struct{})
	for _, r := range records {
		owner, ok := r.Owner.Get()
		if !ok {
			continue
		}
		companies := seen[owner]
		if companies == nil {
			companies = make(map[domain.CompanyName]struct{})
			seen[owner] = companies
		}
		if c, ok := r.Company.Get(); ok {
			companies[c] = struct{}{}
		}
	}

	out := make(map[domain.OwnerName]int)
	for owner, companies := range seen {
		if len(companies) > 1 {
			out[owner] = len(companies)
		}
	}
	return out
}

// MissingTaxIDCount counts rows with no usable tax id.
func MissingTaxIDCount(records []domain.CleanedRecord) int {
	n := 0
	for _, r := range records {
		if !r.TaxID.IsSet() {
			n++
		}
	}
	return n
}
