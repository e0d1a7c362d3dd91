package normalize

import (
	"math"
	"strconv"
	"strings"

	"corplinks/pkg/contracts/domain"
)

var fractionCleaner = strings.NewReplacer("%", "", " ", "", ",", ".")

// OwnershipFraction parses a stake written either as a fraction ("0.45") or
// as a percentage ("45", "45%", "45,5 %").
//
// Values up to and including 1 are taken as fractions, larger values as
// percentages. "1" therefore means a whole stake, not 1%.
func OwnershipFraction(raw domain.Optional[string]) domain.Optional[domain.Fraction] {
	s, ok := raw.Get()
	if !ok || strings.TrimSpace(s) == "" {
		return domain.None[domain.Fraction]()
	}

	v, err := strconv.ParseFloat(fractionCleaner.Replace(strings.TrimSpace(s)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.None[domain.Fraction]()
	}
	if v <= 1 {
		return domain.Some(domain.Fraction(v))
	}
	return domain.Some(domain.Fraction(v / 100))
}
