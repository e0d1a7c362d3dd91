package domain

import (
	"sort"
)

// CompanyKey groups records of one company.
type CompanyKey struct {
	Company CompanyName `json:"company"`
	TaxID   TaxID       `json:"tax_id"`
}

// OwnerCompanyKey groups the records of one owner in one company.
type OwnerCompanyKey struct {
	Owner   OwnerName   `json:"owner"`
	Company CompanyName `json:"company"`
}

// AnalysisReport holds the cross-record checks over a cleaned table.
// Map iteration order carries no meaning.
type AnalysisReport struct {
	Rows              int                     `json:"rows"`
	OverOwnership     map[CompanyKey]float64  `json:"-"`
	ChangingOwnership map[OwnerCompanyKey]int `json:"-"`
	MultiOwners       map[OwnerName]int       `json:"-"`
	MissingTaxIDCount int                     `json:"missing_tax_id_count"`
}

// OverOwnershipEntry is one row of the over-ownership report.
type OverOwnershipEntry struct {
	CompanyKey
	Total float64 `json:"total"`
}

// ChangingOwnershipEntry is one row of the changing-ownership report.
type ChangingOwnershipEntry struct {
	OwnerCompanyKey
	DistinctStakes int `json:"distinct_stakes"`
}

// MultiOwnerEntry is one row of the multi-owner report.
type MultiOwnerEntry struct {
	Owner     OwnerName `json:"owner"`
	Companies int       `json:"companies"`
}

// OverOwnershipEntries returns the over-ownership groups sorted by company
// then tax id.
func (r AnalysisReport) OverOwnershipEntries() []OverOwnershipEntry {
	out := make([]OverOwnershipEntry, 0, len(r.OverOwnership))
	for k, v := range r.OverOwnership {
		out = append(out, OverOwnershipEntry{CompanyKey: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Company != out[j].Company {
			return out[i].Company < out[j].Company
		}
		return out[i].TaxID < out[j].TaxID
	})
	return out
}

// ChangingOwnershipEntries returns the changing-ownership groups sorted by
// owner then company.
func (r AnalysisReport) ChangingOwnershipEntries() []ChangingOwnershipEntry {
	out := make([]ChangingOwnershipEntry, 0, len(r.ChangingOwnership))
	for k, v := range r.ChangingOwnership {
		out = append(out, ChangingOwnershipEntry{OwnerCompanyKey: k, DistinctStakes: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner < out[j].Owner
		}
		return out[i].Company < out[j].Company
	})
	return out
}

// MultiOwnerEntries returns the multi-owner groups sorted by owner.
func (r AnalysisReport) MultiOwnerEntries() []MultiOwnerEntry {
	out := make([]MultiOwnerEntry, 0, len(r.MultiOwners))
	for k, v := range r.MultiOwners {
		out = append(out, MultiOwnerEntry{Owner: k, Companies: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Owner < out[j].Owner })
	return out
}
