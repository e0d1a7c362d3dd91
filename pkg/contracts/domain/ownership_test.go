package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	some := Some(TaxID("7701"))
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, TaxID("7701"), v)
	assert.True(t, some.IsSet())

	none := None[TaxID]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.Equal(t, TaxID("fallback"), none.OrElse("fallback"))

	var zero Optional[time.Time]
	assert.False(t, zero.IsSet(), "zero value must be missing")
}

func TestOptional_JSON(t *testing.T) {
	type row struct {
		A Optional[Fraction]  `json:"a"`
		B Optional[OwnerName] `json:"b"`
	}

	data, err := json.Marshal(row{A: Some(Fraction(0.45))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.45,"b":null}`, string(data))

	var back row
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"Ivanov I.P."}`), &back))
	assert.False(t, back.A.IsSet())
	assert.Equal(t, OwnerName("Ivanov I.P."), back.B.OrElse(""))
}

func TestNewRawRecord(t *testing.T) {
	tests := []struct {
		name   string
		fields []Optional[string]
		check  func(t *testing.T, r RawRecord)
	}{
		{
			name: "all seven positions",
			fields: []Optional[string]{
				Some("Ivanov Ivan"), Some("Acme"), Some("111"), Some("45%"),
				Some("Moscow"), Some("registry"), Some("01.02.2023"),
			},
			check: func(t *testing.T, r RawRecord) {
				assert.Equal(t, "Ivanov Ivan", r.Owner.OrElse(""))
				assert.Equal(t, "01.02.2023", r.OwnershipDate.OrElse(""))
			},
		},
		{
			name:   "short line leaves tail missing",
			fields: []Optional[string]{Some("Ivanov Ivan"), Some("Acme")},
			check: func(t *testing.T, r RawRecord) {
				assert.True(t, r.Company.IsSet())
				assert.False(t, r.TaxID.IsSet())
				assert.False(t, r.OwnershipDate.IsSet())
			},
		},
		{
			name:   "no fields",
			fields: nil,
			check: func(t *testing.T, r RawRecord) {
				assert.False(t, r.Owner.IsSet())
				assert.False(t, r.Source.IsSet())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRawRecord(3, tt.fields)
			assert.Equal(t, 3, r.Line)
			tt.check(t, r)
		})
	}
}

func TestCleanedRecord_Missing(t *testing.T) {
	r := CleanedRecord{
		Owner:   Some(OwnerName("Ivanov I.")),
		Company: Some(CompanyName("")),
	}
	assert.False(t, r.Missing(FieldOwner))
	assert.False(t, r.Missing(FieldCompany), "blank company is present")
	assert.True(t, r.Missing(FieldTaxID))
	assert.True(t, r.Missing(FieldOwnershipDate))
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "FIO_owner", FieldOwner.String())
	assert.Equal(t, "Ownership_date", FieldOwnershipDate.String())
	assert.Equal(t, "unknown", Field(42).String())
	assert.Len(t, Fields(), FieldCount)
}

func TestAnalysisReport_Entries(t *testing.T) {
	r := AnalysisReport{
		OverOwnership: map[CompanyKey]float64{
			{Company: "Beta", TaxID: "222"}: 1.5,
			{Company: "Acme", TaxID: "111"}: 1.2,
		},
		ChangingOwnership: map[OwnerCompanyKey]int{
			{Owner: "Petrov P.", Company: "Acme"}: 2,
			{Owner: "Ivanov I.", Company: "Beta"}: 3,
			{Owner: "Ivanov I.", Company: "Acme"}: 2,
		},
		MultiOwners: map[OwnerName]int{"Sidorov S.": 2, "Ivanov I.": 3},
	}

	over := r.OverOwnershipEntries()
	require.Len(t, over, 2)
	assert.Equal(t, CompanyName("Acme"), over[0].Company)

	changing := r.ChangingOwnershipEntries()
	require.Len(t, changing, 3)
	assert.Equal(t, OwnerCompanyKey{Owner: "Ivanov I.", Company: "Acme"}, changing[0].OwnerCompanyKey)
	assert.Equal(t, OwnerName("Petrov P."), changing[2].Owner)

	multi := r.MultiOwnerEntries()
	require.Len(t, multi, 2)
	assert.Equal(t, OwnerName("Ivanov I."), multi[0].Owner)
	assert.Equal(t, 3, multi[0].Companies)
}
