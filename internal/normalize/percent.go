package normalize

import (
	"math"
	"strconv"
	"strings"

	"corplinks/pkg/contracts/domain"
)

// MissingPercent is the display text for a record without a stake.
const MissingPercent = "nan%"

// PercentDisplay renders a fraction as a percentage with one decimal,
// e.g. 0.4567 -> "45.7%". Halves round to even.
func PercentDisplay(f domain.Optional[domain.Fraction]) string {
	v, ok := f.Get()
	if !ok {
		return MissingPercent
	}
	pct := math.RoundToEven(float64(v)*100*10) / 10
	return FormatFloat(pct) + "%"
}

// FormatFloat prints the shortest round-trip digits of v. Integral values
// get a trailing ".0"; magnitudes outside [1e-4, 1e16) use exponent notation.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
