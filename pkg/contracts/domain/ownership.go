package domain

import (
	"time"
)

// FieldCount is the number of positional fields in a packed ownership line.
const FieldCount = 7

// Field identifies a positional column of the ownership schema.
type Field int

const (
	FieldOwner Field = iota
	FieldCompany
	FieldTaxID
	FieldOwnership
	FieldRegion
	FieldSource
	FieldOwnershipDate
)

// fieldNames are the column names used by the cleaned export.
var fieldNames = [...]string{
	FieldOwner:         "FIO_owner",
	FieldCompany:       "Company_name",
	FieldTaxID:         "INN_company",
	FieldOwnership:     "Ownership",
	FieldRegion:        "Region",
	FieldSource:        "Source",
	FieldOwnershipDate: "Ownership_date",
}

// String returns the export column name of the field.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Fields lists every positional field in column order.
func Fields() []Field {
	return []Field{
		FieldOwner,
		FieldCompany,
		FieldTaxID,
		FieldOwnership,
		FieldRegion,
		FieldSource,
		FieldOwnershipDate,
	}
}

// OwnerName is a normalized owner name, usually "Surname I.I.".
type OwnerName string

// CompanyName is a quote-stripped, whitespace-collapsed company name.
type CompanyName string

// TaxID is a company tax identifier rendered as an integer string.
type TaxID string

// Fraction is an ownership stake where 1.0 means 100%.
type Fraction float64

// RawRecord is one packed line split into its seven positional fields.
// A field is missing when the source line had no value at that position,
// which is different from a present but blank value.
type RawRecord struct {
	Line          int              `json:"line"`
	Owner         Optional[string] `json:"owner"`
	Company       Optional[string] `json:"company"`
	TaxID         Optional[string] `json:"tax_id"`
	Ownership     Optional[string] `json:"ownership"`
	Region        Optional[string] `json:"region"`
	Source        Optional[string] `json:"source"`
	OwnershipDate Optional[string] `json:"ownership_date"`
}

// NewRawRecord builds a record from positional fields. Positions beyond the
// end of fields are left missing; extra fields are ignored.
func NewRawRecord(line int, fields []Optional[string]) RawRecord {
	at := func(f Field) Optional[string] {
		if int(f) < len(fields) {
			return fields[f]
		}
		return None[string]()
	}
	return RawRecord{
		Line:          line,
		Owner:         at(FieldOwner),
		Company:       at(FieldCompany),
		TaxID:         at(FieldTaxID),
		Ownership:     at(FieldOwnership),
		Region:        at(FieldRegion),
		Source:        at(FieldSource),
		OwnershipDate: at(FieldOwnershipDate),
	}
}

// CleanedRecord is a RawRecord after field normalization.
type CleanedRecord struct {
	Line             int                   `json:"line"`
	Owner            Optional[OwnerName]   `json:"owner"`
	Company          Optional[CompanyName] `json:"company"`
	TaxID            Optional[TaxID]       `json:"tax_id"`
	Ownership        Optional[Fraction]    `json:"ownership"`
	OwnershipPercent string                `json:"ownership_pct"`
	Region           Optional[string]      `json:"region"`
	Source           Optional[string]      `json:"source"`
	OwnershipDate    Optional[time.Time]   `json:"ownership_date"`
}

// Missing reports whether the given field is missing in the record.
func (r CleanedRecord) Missing(f Field) bool {
	switch f {
	case FieldOwner:
		return !r.Owner.IsSet()
	case FieldCompany:
		return !r.Company.IsSet()
	case FieldTaxID:
		return !r.TaxID.IsSet()
	case FieldOwnership:
		return !r.Ownership.IsSet()
	case FieldRegion:
		return !r.Region.IsSet()
	case FieldSource:
		return !r.Source.IsSet()
	case FieldOwnershipDate:
		return !r.OwnershipDate.IsSet()
	}
	return false
}
