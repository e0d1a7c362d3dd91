// Package normalize turns raw ownership-record text into canonical values.
//
// Every function here is total: malformed or absent input produces a missing
// domain.Optional, never an error or a panic. Callers count missing values
// instead of handling parse failures.
//
//	owner := normalize.OwnerName(domain.Some("Ivanov Ivan Petrovich")) // "Ivanov I.P."
//	share := normalize.OwnershipFraction(domain.Some("45%"))          // 0.45
//	pct := normalize.PercentDisplay(share)                            // "45.0%"
//
// Field rules:
//
//   - OwnerName: surname followed by one initial per remaining token.
//   - CompanyName: quotes removed, whitespace collapsed. A blank but present
//     name stays present (as ""); only an absent name is missing.
//   - TaxID: parsed as a number, truncated, rendered as an integer string.
//   - OwnershipFraction: values above 1 are percentages and are divided by 100.
//   - OwnershipDate: fixed layouts in order, then a permissive fallback.
package normalize
