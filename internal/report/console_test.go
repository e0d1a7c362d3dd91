package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corplinks/pkg/contracts/domain"
)

func TestWrite(t *testing.T) {
	r := domain.AnalysisReport{
		Rows: 10,
		OverOwnership: map[domain.CompanyKey]float64{
			{Company: "Acme", TaxID: "111"}: 1.2000000000000002,
		},
		ChangingOwnership: map[domain.OwnerCompanyKey]int{
			{Owner: "Petrov P.", Company: "Gamma"}: 2,
		},
		MultiOwners: map[domain.OwnerName]int{
			"Petrov P.":   2,
			"Ivanov I.I.": 3,
		},
		MissingTaxIDCount: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summary{
		RunID:      "run-1",
		CleanedCSV: "data/processed/cleaned_data.csv",
		Rejected:   2,
	}, r))

	out := buf.String()
	assert.Contains(t, out, "Cleaning complete: 10 rows (run run-1)")
	assert.Contains(t, out, "Rejected lines: 2")
	assert.Contains(t, out, "Cleaned table: data/processed/cleaned_data.csv")
	assert.NotContains(t, out, "Workbook:")
	assert.Contains(t, out, "Missing tax id: 3")
	assert.Contains(t, out, "Over 100% ownership: 1")
	assert.Contains(t, out, "1.2000000000000002")
	assert.Contains(t, out, "Changing ownership: 1")
	assert.Contains(t, out, "Multi-company owners: 2")
	multi := out[strings.Index(out, "Multi-company owners"):]
	assert.Less(t, strings.Index(multi, "Ivanov I.I."), strings.Index(multi, "Petrov P."), "owners are sorted")
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summary{}, domain.AnalysisReport{}))

	assert.Contains(t, buf.String(), "Cleaning complete: 0 rows\n")
	assert.Contains(t, buf.String(), "Over 100% ownership: 0")
	assert.NotContains(t, buf.String(), "Rejected")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWrite_Error(t *testing.T) {
	assert.Error(t, Write(failingWriter{}, Summary{}, domain.AnalysisReport{}))
}
