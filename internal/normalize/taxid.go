package normalize

import (
	"math"
	"strconv"
	"strings"

	"corplinks/pkg/contracts/domain"
)

// TaxID canonicalizes a tax identifier such as "1234567890.0" to
// "1234567890". Anything that does not parse as a finite number is missing.
func TaxID(raw domain.Optional[string]) domain.Optional[domain.TaxID] {
	s, ok := raw.Get()
	if !ok {
		return domain.None[domain.TaxID]()
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.None[domain.TaxID]()
	}

	// 'f' with precision 0 prints every integer digit of the float, so ids
	// beyond int64 range still render.
	v = math.Trunc(v)
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return domain.Some(domain.TaxID(strconv.FormatFloat(v, 'f', 0, 64)))
}
