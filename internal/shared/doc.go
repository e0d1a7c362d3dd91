// Package shared holds code used across the cleaner's packages that belongs
// to none of them.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on structured logs
//   - SampleLines, a small packed export with known analysis results
//   - WriteLinesFile and WriteWorkbook for building .txt/.csv and .xlsx inputs
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    path := testutil.WriteWorkbook(t, t.TempDir(), "raw.xlsx", "", testutil.SampleLines)
//	    logger, handler := testutil.NewTestLogger(t)
//	    // ...
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "Loaded raw records")
//	}
package shared
