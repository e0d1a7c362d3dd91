package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"corplinks/pkg/contracts/domain"
)

// DateLayouts are tried in order before the permissive fallback:
// day.month.year, ISO, day/month/year, compact ISO, day.month.two-digit-year.
var DateLayouts = []string{
	"2.1.2006",
	"2006-1-2",
	"2/1/2006",
	"20060102",
	"2.1.06",
}

// OwnershipDate parses the date of ownership. The result is the calendar
// date at UTC midnight; any time of day in the input is dropped.
func OwnershipDate(raw domain.Optional[string]) domain.Optional[time.Time] {
	s, ok := raw.Get()
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return domain.None[time.Time]()
	}

	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Some(dateOnly(t))
		}
	}

	if t, ok := parseAny(s); ok {
		return domain.Some(dateOnly(t))
	}
	return domain.None[time.Time]()
}

// parseAny runs the permissive parser. dateparse has panicked on some
// malformed inputs in the past; those count as unparseable.
func parseAny(s string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
